package main

import (
	"fmt"
	"io"

	cluster "github.com/yyyoichi/subsidy_cluster"
)

func printSummary(w io.Writer, res *cluster.Result) {
	s := res.Summary
	fmt.Fprintln(w, "Cluster centroids:")
	for c, centroid := range s.Centroids {
		fmt.Fprintf(w, "Cluster %d:\n", c)
		fmt.Fprintf(w, "Total Units: %d\n", centroid.TotalUnits)
		fmt.Fprintf(w, "Active Subsidies: %d\n", centroid.SubsidyCount)
	}

	fmt.Fprintln(w, "\nCluster sizes:")
	for c, n := range s.Sizes {
		fmt.Fprintf(w, "Cluster %d: %d properties\n", c, n)
	}

	fmt.Fprintln(w, "\nOwnerType distribution by cluster:")
	for c := range s.K() {
		fmt.Fprintf(w, "Cluster %d:\n", c)
		for _, owner := range s.Owners(c) {
			fmt.Fprintf(w, "%s: %d\n", owner, s.OwnerDistribution[c][owner])
		}
	}

	if !res.Converged {
		fmt.Fprintf(w, "\nWarning: stopped after %d iterations without converging\n", res.Iterations)
	}
}
