// Command buildcache encodes every subject of a dataset and stores the image
// arrays in the cache, or checks that a stored cache still matches.
//
// Usage:
//
//	buildcache -dataset ninapro-db5 -root DatasetsProcessed [-config run.json] [-leave-out 3] [-rebuild]
//
// Known datasets: ninapro-db5, OzdemirEMG, M_dataset. Without -config the
// dataset's default configuration is used.
package main
