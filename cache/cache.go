package cache

import "context"
import "errors"
import "fmt"
import "io/fs"
import "os"
import "path/filepath"
import "slices"
import "time"

import "github.com/google/uuid"
import "k8s.io/klog/v2"

import "github.com/neurlang/emgimage/encode"

var ErrStale = errors.New("stale image cache")

// Cache maps keys to image stores below Root. With Save unset nothing is
// written and every miss is rebuilt.
type Cache struct {
	Root string
	Save bool
}

// New returns a cache rooted at root.
func New(root string, save bool) *Cache {
	return &Cache{Root: root, Save: save}
}

// Path is the store directory of key.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Root, filepath.FromSlash(key))
}

// Remove deletes the store of key, if any.
func (c *Cache) Remove(key string) error {
	return os.RemoveAll(c.Path(key))
}

// Builder produces the images of a key on a cache miss.
type Builder func(ctx context.Context) (encode.Array, error)

// LoadOrBuild returns the images stored under key, or builds, rounds and
// (with Save) stores them. expect is the (N, 3, H, W) shape the caller
// needs; a stored or built array of another shape is ErrStale.
func (c *Cache) LoadOrBuild(ctx context.Context, key string, expect []int, build Builder) (encode.Array, error) {
	dir := c.Path(key)
	if _, err := os.Stat(dir); err == nil {
		return c.load(dir, expect)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return encode.Array{}, err
	}
	klog.InfoS("image cache miss", "dir", dir)

	if err := ctx.Err(); err != nil {
		return encode.Array{}, err
	}
	start := time.Now()
	arr, err := build(ctx)
	if err != nil {
		return encode.Array{}, err
	}
	if err := check(dir, arr, expect); err != nil {
		return encode.Array{}, err
	}
	Round(arr)
	klog.InfoS("built images", "dir", dir, "shape", arr.Shape(), "elapsed", time.Since(start))

	if !c.Save {
		klog.V(1).InfoS("not saving images", "dir", dir)
		return arr, nil
	}
	return c.store(dir, arr, expect)
}

func (c *Cache) load(dir string, expect []int) (encode.Array, error) {
	arr, err := ReadStore(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return encode.Array{}, fmt.Errorf("%w: %s has no array metadata, delete it to rebuild", ErrStale, dir)
	}
	if err != nil {
		return encode.Array{}, err
	}
	if err := check(dir, arr, expect); err != nil {
		return encode.Array{}, err
	}
	klog.InfoS("loaded cached images", "dir", dir, "shape", arr.Shape())
	return arr, nil
}

// store writes arr into a staging directory next to dir and renames it into
// place. When another builder got there first its store wins.
func (c *Cache) store(dir string, arr encode.Array, expect []int) (encode.Array, error) {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return encode.Array{}, err
	}
	staging := filepath.Join(parent, ".staging-"+uuid.NewString())
	if err := WriteStore(staging, arr); err != nil {
		os.RemoveAll(staging)
		return encode.Array{}, err
	}
	if err := os.Rename(staging, dir); err != nil {
		os.RemoveAll(staging)
		if _, serr := os.Stat(dir); serr != nil {
			return encode.Array{}, err
		}
		klog.InfoS("another builder saved images first", "dir", dir)
		return c.load(dir, expect)
	}
	klog.InfoS("saved images", "dir", dir)
	return arr, nil
}

func check(dir string, arr encode.Array, expect []int) error {
	if expect == nil || slices.Equal(arr.Shape(), expect) {
		return nil
	}
	if len(expect) > 0 && arr.N != expect[0] {
		return fmt.Errorf("%w: %s holds %d images for %d windows, delete it to rebuild", ErrStale, dir, arr.N, expect[0])
	}
	return fmt.Errorf("%w: %s holds images of shape %v, want %v, delete it to rebuild", ErrStale, dir, arr.Shape(), expect)
}
