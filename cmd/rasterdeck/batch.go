package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/v4film/rasterdeck/format"
	"github.com/v4film/rasterdeck/parallel"
)

type batchCmd struct {
	Scan    string `help:"Source folder to scan." default:"."`
	Dest    string `help:"Destination folder for converted files." default:"converted"`
	Format  string `help:"Output extension (bmp, ppm, pgm, pbm, raw)." default:"bmp"`
	Workers int    `help:"Worker count; 0 uses one per CPU." default:"0"`
}

func (c *batchCmd) Run() error {
	encKind, ok := format.KindFromExtension(c.Format)
	if !ok {
		return fmt.Errorf("unsupported output format %q", c.Format)
	}

	if err := os.MkdirAll(c.Dest, os.ModeDir); err != nil {
		return fmt.Errorf("create destination %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("read folder %q: %w", c.Scan, err)
	}

	pool := parallel.Start(c.Workers)

	var converted, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		pool.Do(func(name string) func() {
			return func() {
				logger := slog.Default().With("file", name)
				if err := convertOne(c.Scan, c.Dest, name, encKind, c.Format); err != nil {
					errCount.Add(1)
					logger.Error("could not convert file", "error", err)
					return
				}
				converted.Add(1)
			}
		}(file.Name()))
	}

	pool.Wait(true)

	slog.Info("batch done", "converted", converted.Load(), "errors", errCount.Load())
	if errCount.Load() > 0 {
		return fmt.Errorf("failed to convert %d files", errCount.Load())
	}
	return nil
}

func convertOne(scanDir, destDir, name string, encKind format.EncodeKind, ext string) error {
	in, err := os.Open(filepath.Join(scanDir, name))
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer in.Close()

	b, _, err := format.Decode(in)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	oldExt := filepath.Ext(name)
	destName := fmt.Sprintf("%s.%s", strings.TrimSuffix(name, oldExt), ext)

	out, err := os.Create(filepath.Join(destDir, destName))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()

	if _, err := format.Encode(out, b, encKind); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
