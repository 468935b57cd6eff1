// Package cache keeps encoded image arrays on disk, one store per subject
// and configuration.
//
// The store directory name is derived from every option that changes the
// images. Stores use the zarr version 2 layout: a .zarray document and raw
// little-endian float16 chunks, so they can be opened with the Python zarr
// package as well. Built arrays are rounded to float16 before they are
// returned, so a hit and a miss give the same values.
//
// A new store is written to a staging directory and renamed into place, so
// concurrent builders of one key never leave a half written store behind.
package cache
