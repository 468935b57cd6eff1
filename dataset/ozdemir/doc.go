// Package ozdemir reads the Ozdemir EMG recordings: 40 participants, four
// electrodes at 2 kHz, one recording per gesture in p<n>/Gesture<Name>.
package ozdemir
