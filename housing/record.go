// Package housing holds the property records that are clustered and the
// collaborators that load them from CSV files or a SQLite database.
package housing

// Record is a single subsidized housing property.
// TotalUnits and SubsidyCount are the two clustering features, OwnerType is
// only tallied for reporting.
type Record struct {
	TotalUnits   int
	SubsidyCount int
	OwnerType    string
}

// Column names of the cleaned data set.
const (
	ColumnTotalUnits = "TotalUnits"
	ColumnActiveSubs = "ActiveSubs"
	ColumnOwnerType  = "OwnerType"
)
