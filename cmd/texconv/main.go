// texconv converts GPU textures between the DDS, KTX and TEX containers.
//
// Usage:
//
//	texconv [flags] input.dds output.ktx     # convert one file
//	texconv [flags] input.tex output.dds.zst # convert and pack with zstd
//	texconv -info input.ktx                  # show texture info
//	texconv -batch -to ktx in/ out/          # convert a directory
//
// Block-compressed formats the destination cannot hold are decompressed to
// an uncompressed layout it accepts. Nothing is ever recompressed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goopsie/texconv/pkg/archive"
	"github.com/goopsie/texconv/pkg/convert"
	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
)

var (
	maxLevels      int
	expectLevels   int
	packLevel      int
	texOpaque      string
	texAlpha       string
	verbose        bool
	showInfoOnly   bool
	batchMode      bool
	batchContainer string
)

func init() {
	flag.IntVar(&maxLevels, "levels", convert.DefaultMaxLevels, "Maximum number of mip levels to load")
	flag.IntVar(&expectLevels, "expect-levels", 0, "Required mip level count for TEX input (0 to skip)")
	flag.IntVar(&packLevel, "pack-level", archive.DefaultCompressionLevel, "zstd level for .zst output")
	flag.StringVar(&texOpaque, "tex-opaque", "BGR8", "Fallback format for opaque textures written to TEX")
	flag.StringVar(&texAlpha, "tex-alpha", "BGRA8", "Fallback format for textures with alpha written to TEX")
	flag.BoolVar(&verbose, "v", false, "Print conversion details")
	flag.BoolVar(&showInfoOnly, "info", false, "Show texture info and exit")
	flag.BoolVar(&batchMode, "batch", false, "Convert every texture under an input directory")
	flag.StringVar(&batchContainer, "to", "", "Output container for batch mode: dds, ktx or tex")

	flag.Usage = printUsage
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "texconv - GPU texture container converter")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  texconv [flags] <input> <output>")
	fmt.Fprintln(os.Stderr, "  texconv -info <input>")
	fmt.Fprintln(os.Stderr, "  texconv -batch -to <dds|ktx|tex> <input_dir> <output_dir>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Containers are detected from file content and extension. Append .zst")
	fmt.Fprintln(os.Stderr, "to the output name to pack it with zstd.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func run() error {
	opts, err := options()
	if err != nil {
		flag.Usage()
		return err
	}

	args := flag.Args()
	switch {
	case showInfoOnly:
		if len(args) != 1 {
			flag.Usage()
			return fmt.Errorf("-info takes one input file")
		}
		return showInfo(args[0], opts)

	case batchMode:
		if len(args) != 2 {
			flag.Usage()
			return fmt.Errorf("-batch takes an input and an output directory")
		}
		to, ok := format.ParseContainer(batchContainer)
		if !ok {
			return fmt.Errorf("-to must be dds, ktx or tex, got %q", batchContainer)
		}
		return batchConvert(args[0], args[1], to, opts)

	default:
		if len(args) != 2 {
			flag.Usage()
			return fmt.Errorf("expected an input and an output file")
		}
		return convertFile(args[0], args[1], opts)
	}
}

func options() (convert.Options, error) {
	opaque, ok := format.Parse(texOpaque)
	if !ok {
		return convert.Options{}, fmt.Errorf("unknown -tex-opaque format %q", texOpaque)
	}
	alpha, ok := format.Parse(texAlpha)
	if !ok {
		return convert.Options{}, fmt.Errorf("unknown -tex-alpha format %q", texAlpha)
	}
	if maxLevels < 1 {
		return convert.Options{}, fmt.Errorf("-levels must be at least 1")
	}

	return convert.Options{
		MaxLevels:      maxLevels,
		ExpectedLevels: expectLevels,
		PackLevel:      packLevel,
		TEXOpaque:      opaque,
		TEXAlpha:       alpha,
	}, nil
}

func convertFile(in, out string, opts convert.Options) error {
	res, err := convert.Convert(in, out, opts)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Source: %s %s\n", res.From, res.SourceFormat)
		fmt.Printf("Target: %s %s\n", res.To, res.TargetFormat)
		fmt.Printf("Mip levels: %d\n", res.Levels)
		if res.Packed {
			fmt.Printf("Packed: %d bytes (%.2f KB)\n", res.Bytes, float64(res.Bytes)/1024)
		} else {
			fmt.Printf("Size: %d bytes (%.2f KB)\n", res.Bytes, float64(res.Bytes)/1024)
		}
	}
	fmt.Printf("Converted %s → %s\n", in, out)
	return nil
}

func showInfo(path string, opts convert.Options) error {
	src, err := convert.Open(path, opts)
	if err != nil {
		return err
	}

	base := src.Set.Base()
	d, _ := base.Descriptor()

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Container: %s", src.Container)
	if src.Packed {
		fmt.Printf(" (zstd packed)")
	}
	fmt.Println()
	fmt.Printf("Dimensions: %dx%d\n", base.Width, base.Height)
	fmt.Printf("Format: %s\n", base.Format)
	if d.Compressed {
		fmt.Printf("Compression: %dx%d blocks, %d bytes per block (decodes to %s)\n",
			d.BlockWidth, d.BlockHeight, d.BytesPerBlock, d.PixelFormat)
	} else {
		fmt.Printf("Bytes per pixel: %d\n", d.PixelSize())
	}
	fmt.Printf("Mip levels: %d (full chain %d)\n", len(src.Set.Levels), mip.TEXLevelCount(base.Width, base.Height, true))

	if verbose {
		for i, lvl := range src.Set.Levels {
			fmt.Printf("  level %2d: %dx%d, %d bytes\n", i, lvl.Width, lvl.Height, len(lvl.Data))
		}
	}
	total := mip.ChainSize(base.Width, base.Height, len(src.Set.Levels), d.Geometry())
	fmt.Printf("Data size: %d bytes (%.2f KB)\n", total, float64(total)/1024)
	fmt.Printf("Writable to: %s\n", writableTo(d))

	return nil
}

func writableTo(d format.Descriptor) string {
	var s string
	for _, c := range []format.Container{format.DDS, format.KTX, format.TEX} {
		if !d.Supports(c) {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += c.String()
	}
	if s == "" {
		return "none (converted on save)"
	}
	return s
}

// batchConvert processes a directory of files
func batchConvert(inputDir, outputDir string, to format.Container, opts convert.Options) error {
	res, err := convert.Batch(inputDir, outputDir, to, opts)
	if err != nil {
		return err
	}

	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "%v\n", e)
	}
	fmt.Printf("\nCompleted: %d files converted, %d errors\n", res.Converted, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", res.Failed, res.Converted+res.Failed)
	}
	return nil
}
