package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/texconv/pkg/format"
)

// BatchResult counts the outcome of a batch run.
type BatchResult struct {
	Converted int
	Failed    int
	Errors    []error // One per failed file
}

// OutputPath maps a file under inDir to its counterpart under outDir with
// the extension of container to. A packed input stays packed.
func OutputPath(inDir, outDir, path string, to format.Container) (string, error) {
	rel, err := filepath.Rel(inDir, path)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}

	packed := strings.EqualFold(filepath.Ext(rel), PackedExt)
	if packed {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + to.Ext()
	if packed {
		rel += PackedExt
	}
	return filepath.Join(outDir, rel), nil
}

// Batch converts every .dds, .ktx and .tex file (packed or not) under inDir
// into container to, mirroring the directory layout under outDir. A failing
// file is recorded and the walk goes on. When outDir lies inside inDir it is
// not walked.
func Batch(inDir, outDir string, to format.Container, opts Options) (*BatchResult, error) {
	if _, ok := format.ParseContainer(to.Ext()); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, to)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	absIn, err := filepath.Abs(inDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", inDir, err)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", outDir, err)
	}

	res := &BatchResult{}
	fail := func(err error) {
		res.Failed++
		res.Errors = append(res.Errors, err)
	}

	err = filepath.Walk(inDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == absOut && abs != absIn {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := containerFromExt(path); !ok {
			return nil
		}

		outPath, err := OutputPath(inDir, outDir, path, to)
		if err != nil {
			fail(err)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			fail(fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err))
			return nil
		}

		if _, err := Convert(path, outPath, opts); err != nil {
			fail(err)
			return nil
		}
		res.Converted++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("walk %s: %w", inDir, err)
	}

	return res, nil
}
