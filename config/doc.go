// Package config holds the run configuration of the EMG image pipeline.
//
// A Config is built once per run, validated, and then passed by value to every
// component. It selects:
//   - the signal geometry (sampling rate, electrodes, window and step length)
//   - the conditioning filter (highpass or bandpass Butterworth plus notch)
//   - exactly one encoding mode (raw, magnitude, RMS, spectrogram,
//     phase spectrogram, CWT, HHT)
//   - the scaling, cross-validation and cache options that form the cache key
package config
