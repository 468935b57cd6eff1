// Package mdataset reads the M dataset: eight electrodes at 200 Hz stored as
// interleaved little-endian int16 files, four repetitions of seven gestures
// per subject.
package mdataset
