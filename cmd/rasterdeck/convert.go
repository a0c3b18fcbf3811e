package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/v4film/rasterdeck/format"
)

type convertCmd struct {
	In  string `arg:"" help:"Input file; format is sniffed from content."`
	Out string `arg:"" help:"Output file; format is chosen from the extension."`
}

func (c *convertCmd) Run() error {
	in, err := os.Open(c.In)
	if err != nil {
		return fmt.Errorf("open %q: %w", c.In, err)
	}
	defer in.Close()

	b, kind, err := format.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %q: %w", c.In, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(c.Out), ".")
	encKind, ok := format.KindFromExtension(ext)
	if !ok {
		return fmt.Errorf("unsupported output extension %q", ext)
	}

	out, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create %q: %w", c.Out, err)
	}
	defer out.Close()

	n, err := format.Encode(out, b, encKind)
	if err != nil {
		return fmt.Errorf("encode %q: %w", c.Out, err)
	}

	fmt.Printf("%s (%s, %dx%d) -> %s (%d bytes)\n", c.In, kind, b.Width, b.Height, c.Out, n)
	return nil
}
