package cache

import "encoding/binary"
import "encoding/json"
import "errors"
import "fmt"
import "io/fs"
import "os"
import "path/filepath"
import "strconv"
import "strings"

import "github.com/x448/float16"

import "github.com/neurlang/emgimage/encode"

var ErrFormat = errors.New("unsupported array store")

// chunkBytes bounds the size of one chunk file.
const chunkBytes = 4 << 20

// zarray is the metadata document of a version 2 array store.
type zarray struct {
	ZarrFormat int             `json:"zarr_format"`
	Shape      []int           `json:"shape"`
	Chunks     []int           `json:"chunks"`
	Dtype      string          `json:"dtype"`
	Compressor json.RawMessage `json:"compressor"`
	FillValue  float64         `json:"fill_value"`
	Order      string          `json:"order"`
	Filters    json.RawMessage `json:"filters"`
}

// Round rounds every value of a to half precision, in place.
func Round(a encode.Array) {
	for i, v := range a.Data {
		a.Data[i] = float16.Fromfloat32(v).Float32()
	}
}

// WriteStore writes a as an uncompressed little-endian float16 store in dir,
// chunked along the first axis only.
func WriteStore(dir string, a encode.Array) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	stride := a.Stride()
	per := max(1, chunkBytes/max(1, 2*stride))
	meta := zarray{
		ZarrFormat: 2,
		Shape:      a.Shape(),
		Chunks:     []int{per, a.Channels, a.Height, a.Width},
		Dtype:      "<f2",
		Compressor: json.RawMessage("null"),
		Order:      "C",
		Filters:    json.RawMessage("null"),
	}
	b, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ".zarray"), b, 0o644); err != nil {
		return err
	}

	// chunks are stored whole; the tail of the last one holds the fill value
	buf := make([]byte, 2*per*stride)
	for c := 0; c*per < a.N; c++ {
		lo := c * per * stride
		hi := min(len(a.Data), (c+1)*per*stride)
		for i := range buf {
			buf[i] = 0
		}
		for i, v := range a.Data[lo:hi] {
			binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(v).Bits())
		}
		name := filepath.Join(dir, strconv.Itoa(c)+".0.0.0")
		if err := os.WriteFile(name, buf, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func readMeta(dir string) (zarray, error) {
	var meta zarray
	b, err := os.ReadFile(filepath.Join(dir, ".zarray"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("%w: %s: %v", ErrFormat, dir, err)
	}
	switch {
	case meta.ZarrFormat != 2:
		return meta, fmt.Errorf("%w: %s: zarr format %d", ErrFormat, dir, meta.ZarrFormat)
	case meta.Dtype != "<f2":
		return meta, fmt.Errorf("%w: %s: dtype %s", ErrFormat, dir, meta.Dtype)
	case !isNull(meta.Compressor) || !isNull(meta.Filters):
		return meta, fmt.Errorf("%w: %s: compressed chunks", ErrFormat, dir)
	case meta.Order != "C":
		return meta, fmt.Errorf("%w: %s: order %s", ErrFormat, dir, meta.Order)
	case len(meta.Shape) != 4 || len(meta.Chunks) != 4:
		return meta, fmt.Errorf("%w: %s: rank %d", ErrFormat, dir, len(meta.Shape))
	}
	for _, c := range meta.Chunks {
		if c <= 0 {
			return meta, fmt.Errorf("%w: %s: chunks %v", ErrFormat, dir, meta.Chunks)
		}
	}
	return meta, nil
}

func isNull(m json.RawMessage) bool {
	s := strings.TrimSpace(string(m))
	return s == "" || s == "null"
}

// ReadStore loads a float16 store written by WriteStore or by any zarr v2
// writer using the same dtype without compression. Missing chunks read as
// the fill value.
func ReadStore(dir string) (encode.Array, error) {
	meta, err := readMeta(dir)
	if err != nil {
		return encode.Array{}, err
	}
	shape, chunks := meta.Shape, meta.Chunks
	out := encode.NewArray(shape[0], shape[1], shape[2], shape[3])
	if len(out.Data) == 0 {
		return out, nil
	}

	var grid [4]int
	for d := range grid {
		grid[d] = (shape[d] + chunks[d] - 1) / chunks[d]
	}
	chunkLen := chunks[0] * chunks[1] * chunks[2] * chunks[3]
	fill := float32(meta.FillValue)

	var at [4]int
	for {
		parts := make([]string, 4)
		for d := range parts {
			parts[d] = strconv.Itoa(at[d])
		}
		b, err := os.ReadFile(filepath.Join(dir, strings.Join(parts, ".")))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			b = nil
		case err != nil:
			return encode.Array{}, err
		case len(b) != 2*chunkLen:
			return encode.Array{}, fmt.Errorf("%w: %s: chunk %v has %d bytes, want %d", ErrFormat, dir, at, len(b), 2*chunkLen)
		}
		copyChunk(out, at, chunks, b, fill)

		d := 3
		for ; d >= 0; d-- {
			at[d]++
			if at[d] < grid[d] {
				break
			}
			at[d] = 0
		}
		if d < 0 {
			break
		}
	}
	return out, nil
}

// copyChunk places the chunk at grid position at into out, clipping at the
// array edges. A nil chunk is filled with fill.
func copyChunk(out encode.Array, at [4]int, chunks []int, b []byte, fill float32) {
	dims := out.Shape()
	var lo, hi [4]int
	for d := range lo {
		lo[d] = at[d] * chunks[d]
		hi[d] = min(dims[d], lo[d]+chunks[d])
	}
	for n := lo[0]; n < hi[0]; n++ {
		for c := lo[1]; c < hi[1]; c++ {
			for y := lo[2]; y < hi[2]; y++ {
				for x := lo[3]; x < hi[3]; x++ {
					dst := ((n*dims[1]+c)*dims[2]+y)*dims[3] + x
					if b == nil {
						out.Data[dst] = fill
						continue
					}
					src := (((n-lo[0])*chunks[1]+(c-lo[1]))*chunks[2]+(y-lo[2]))*chunks[3] + (x - lo[3])
					out.Data[dst] = float16.Frombits(binary.LittleEndian.Uint16(b[2*src:])).Float32()
				}
			}
		}
	}
}
