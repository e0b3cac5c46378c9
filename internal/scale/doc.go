// Package scale converts housing records into min-max normalized feature
// vectors and keeps the parameters needed to invert the mapping.
package scale
