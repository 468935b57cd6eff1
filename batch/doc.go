// Package batch encodes many windows in parallel while keeping their order.
//
// The windows are split into as many contiguous chunks as there are workers
// and each worker encodes one chunk into its own slots of the output array.
// The first failure cancels the remaining workers and no partial result is
// returned.
package batch
