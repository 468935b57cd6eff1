// Package recording reads continuous multi-channel recordings from the file
// formats the datasets ship in: EDF, FLAC, WAV and raw interleaved int16.
//
// Every reader returns a channel-major Recording. Readers of formats that do
// not carry a sampling rate leave SampleRate at zero.
package recording
