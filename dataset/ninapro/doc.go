// Package ninapro reads the Ninapro DB5 recordings.
//
// Every subject has one EDF file per exercise, s<n>/S<n>_E<e>_A1.edf, holding
// 16 EMG signals sampled at 200 Hz followed by the restimulus signal. The
// gesture ids of the selected exercises are renumbered into one sequential
// vocabulary; the partial dataset keeps ten gestures of exercise 2.
package ninapro
