// Package encode turns one conditioned EMG window into a normalised
// (3, H, W) image.
//
// Every encoder follows the same tail: scale the scalar field to [0,1], look
// it up in the viridis colormap, resize with a bicubic kernel, clamp and
// apply the ImageNet channel statistics. The encoders differ in the field
// they build:
//   - raw samples, stretched by the window's own range
//   - raw samples, scaled by a dataset-wide range (magnitude)
//   - per-chunk root mean square of the samples
//   - STFT magnitude or phase, one block per electrode
//   - Morlet wavelet magnitude, one block per electrode
//   - Hilbert phase of the empirical mode decomposition
//
// Encoders are pure: the same window and configuration always give the same
// image.
package encode
