package batch

import "context"
import "fmt"
import "runtime"
import "time"

import "golang.org/x/sync/errgroup"
import "k8s.io/klog/v2"

import "github.com/neurlang/emgimage/encode"
import "github.com/neurlang/emgimage/window"

// Generator is a bounded worker pool for window encoding.
type Generator struct {
	Workers int
}

// DefaultWorkers leaves half of the cores to other builds running on the
// same machine.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

// New returns a generator with the given pool size; workers <= 0 selects
// DefaultWorkers.
func New(workers int) *Generator {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Generator{Workers: workers}
}

// Chunks splits n items into k contiguous parts whose sizes differ by at most
// one, larger parts first. It returns the k+1 boundaries.
func Chunks(n, k int) []int {
	k = max(1, min(k, n))
	bounds := make([]int, k+1)
	size, extra := n/k, n%k
	for i := 0; i < k; i++ {
		bounds[i+1] = bounds[i] + size
		if i < extra {
			bounds[i+1]++
		}
	}
	return bounds
}

// Generate encodes every window with enc, in order. pre, if not nil, runs on
// each window inside the workers before it is encoded.
func (g *Generator) Generate(ctx context.Context, windows []window.Window, enc encode.Encoder, pre func(window.Window) window.Window) (encode.Array, error) {
	h, w := enc.Size()
	out := encode.NewArray(len(windows), 3, h, w)
	if len(windows) == 0 {
		return out, nil
	}

	start := time.Now()
	bounds := Chunks(len(windows), g.Workers)
	eg, ctx := errgroup.WithContext(ctx)
	for c := 0; c+1 < len(bounds); c++ {
		lo, hi := bounds[c], bounds[c+1]
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				win := windows[i]
				if pre != nil {
					win = pre(win)
				}
				img, err := enc.Encode(win)
				if err != nil {
					return fmt.Errorf("window %d: %w", i, err)
				}
				if err := out.Set(i, img); err != nil {
					return fmt.Errorf("window %d: %w", i, err)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return encode.Array{}, err
	}
	klog.V(2).InfoS("encoded windows", "windows", len(windows), "chunks", len(bounds)-1, "height", h, "width", w, "elapsed", time.Since(start))
	return out, nil
}
