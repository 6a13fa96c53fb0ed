// Package convert drives a conversion from one texture container file to
// another.
//
// Every stage runs in memory. The output file is only created once the
// converted bytes are ready, so a failed conversion leaves nothing behind.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/texconv/pkg/archive"
	"github.com/goopsie/texconv/pkg/dds"
	"github.com/goopsie/texconv/pkg/decompress"
	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/ktx"
	"github.com/goopsie/texconv/pkg/reconcile"
	"github.com/goopsie/texconv/pkg/tex"
	"github.com/goopsie/texconv/pkg/texture"
)

// DefaultMaxLevels is the level cap used when Options.MaxLevels is 0.
const DefaultMaxLevels = 32

// PackedExt marks a zstd-packed container.
const PackedExt = ".zst"

// ErrUnknownContainer is returned when neither content nor extension
// identify a container.
var ErrUnknownContainer = errors.New("unknown container")

// Options configures a conversion. The zero value uses the defaults.
type Options struct {
	MaxLevels      int // Levels to load, DefaultMaxLevels if 0
	ExpectedLevels int // TEX only, 0 to skip the check
	PackLevel      int // zstd level for packed output, archive default if 0

	// Formats used when a level cannot be stored in a TEX file as is.
	TEXOpaque format.Format
	TEXAlpha  format.Format

	// Decompressor used for lossy fallbacks; decompress.Decoder if nil.
	Decompressor reconcile.Decompressor
}

func (o Options) maxLevels() int {
	if o.MaxLevels <= 0 {
		return DefaultMaxLevels
	}
	return o.MaxLevels
}

func (o Options) reconciler() *reconcile.Reconciler {
	var d reconcile.Decompressor = decompress.Decoder{}
	if o.Decompressor != nil {
		d = o.Decompressor
	}
	r := reconcile.New(d)
	if o.TEXOpaque != format.Unknown {
		r.TEXOpaque = o.TEXOpaque
	}
	if o.TEXAlpha != format.Unknown {
		r.TEXAlpha = o.TEXAlpha
	}
	return r
}

// Detect identifies the container of data, falling back to the extension
// of path (ignoring a trailing .zst) when no magic matches.
func Detect(data []byte, path string) (format.Container, error) {
	switch {
	case bytes.HasPrefix(data, dds.Magic[:]):
		return format.DDS, nil
	case bytes.HasPrefix(data, ktx.Magic[:4]):
		return format.KTX, nil
	case bytes.HasPrefix(data, tex.Magic[:]):
		return format.TEX, nil
	}
	if c, ok := containerFromExt(path); ok {
		return c, nil
	}
	return format.ContainerNone, fmt.Errorf("%w: %s", ErrUnknownContainer, filepath.Base(path))
}

// DetectOutput picks the output container from the extension of path. A
// trailing .zst requests a packed file.
func DetectOutput(path string) (c format.Container, packed bool, err error) {
	packed = strings.EqualFold(filepath.Ext(path), PackedExt)
	c, ok := containerFromExt(path)
	if !ok {
		return format.ContainerNone, false, fmt.Errorf("%w: %s", ErrUnknownContainer, filepath.Base(path))
	}
	return c, packed, nil
}

func containerFromExt(path string) (format.Container, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == PackedExt {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	return format.ParseContainer(ext)
}

// Load parses container bytes.
func Load(data []byte, c format.Container, opts Options) (*texture.Set, error) {
	switch c {
	case format.DDS:
		return dds.Load(data, opts.maxLevels())
	case format.KTX:
		return ktx.Load(data, opts.maxLevels())
	case format.TEX:
		var to []tex.LoadOption
		if opts.ExpectedLevels > 0 {
			to = append(to, tex.WithExpectedLevels(opts.ExpectedLevels))
		}
		return tex.Load(data, opts.maxLevels(), to...)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, c)
}

// Save serializes set into container c.
func Save(set *texture.Set, c format.Container) ([]byte, error) {
	switch c {
	case format.DDS:
		return dds.Save(set)
	case format.KTX:
		return ktx.Save(set)
	case format.TEX:
		return tex.Save(set)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, c)
}

// Source is a loaded input file.
type Source struct {
	Path      string
	Container format.Container
	Packed    bool
	Set       *texture.Set
}

// Open reads, unpacks and parses a texture file.
func Open(path string, opts Options) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, texture.ErrIO, err)
	}

	src := &Source{Path: path}
	if archive.IsPacked(data) {
		if data, err = archive.Unpack(data); err != nil {
			return nil, fmt.Errorf("unpack %s: %w", path, err)
		}
		src.Packed = true
	}

	if src.Container, err = Detect(data, path); err != nil {
		return nil, fmt.Errorf("detect %s: %w", path, err)
	}
	if src.Set, err = Load(data, src.Container, opts); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return src, nil
}

// Result describes a finished conversion.
type Result struct {
	From, To     format.Container
	SourceFormat format.Format
	TargetFormat format.Format
	Levels       int
	Bytes        int // Size of the written file
	Packed       bool
}

// Convert converts the texture file in to the container named by the
// extension of out.
func Convert(in, out string, opts Options) (*Result, error) {
	src, err := Open(in, opts)
	if err != nil {
		return nil, err
	}

	to, pack, err := DetectOutput(out)
	if err != nil {
		return nil, fmt.Errorf("detect output %s: %w", out, err)
	}

	res := &Result{From: src.Container, To: to, SourceFormat: src.Set.Format(), Packed: pack}

	if err := opts.reconciler().Adapt(src.Set, to); err != nil {
		return nil, fmt.Errorf("adapt %s: %w", in, err)
	}
	res.TargetFormat = src.Set.Format()
	res.Levels = len(src.Set.Levels)

	data, err := Save(src.Set, to)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", out, err)
	}

	if pack {
		var ao []archive.Option
		if opts.PackLevel != 0 {
			ao = append(ao, archive.WithCompressionLevel(opts.PackLevel))
		}
		if data, err = archive.Pack(data, ao...); err != nil {
			return nil, fmt.Errorf("pack %s: %w", out, err)
		}
	}

	if err := writeFile(out, data); err != nil {
		return nil, fmt.Errorf("write %s: %w: %w", out, texture.ErrIO, err)
	}
	res.Bytes = len(data)
	return res, nil
}

// writeFile creates path and writes data, removing the file if anything
// fails after it was created.
func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	_, err = f.Write(data)
	return err
}
