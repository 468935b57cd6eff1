// Package dataset connects recordings to cached images.
//
// An Adapter knows where a dataset keeps its recordings and how to turn one
// subject into balanced, conditioned windows with their labels. A Builder
// fits the scaler on the training subjects and hands every subject to the
// cache, which either reads the stored images or encodes the windows with
// the batch generator:
//   - Prepare is the shared slice, balance, condition and contract path
//   - Builder.Images is the entry point a training loop calls per subject
//   - ToTensor moves an image array into a gomlx tensor
package dataset
