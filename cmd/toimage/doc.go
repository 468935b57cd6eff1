// Command toimage encodes an EMG recording (EDF/FLAC/WAV) into PNG images,
// one per window.
//
// The recording is cut into windows of the configured geometry, optionally
// conditioned, scaled per window and encoded with the selected mode. Every
// image is written with the ImageNet statistics undone.
//
// Usage:
//
//	toimage [-config run.json] [-mode spectrogram] [-fs 200] [-filter] <recording>
//
// The output PNG files are named <recording>.<window>.png
//
// Supported input formats: .edf, .flac, .wav
package main
