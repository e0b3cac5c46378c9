// Package kmeans implements Lloyd's k-means over two-dimensional normalized
// feature vectors.
//
// Results are reproducible: initialization is driven by a seeded PCG source,
// distance ties go to the lowest cluster index and an empty cluster keeps its
// previous centroid instead of being reseeded.
package kmeans
