package main

import (
	"fmt"
	"os"

	"github.com/v4film/rasterdeck/format"
)

type infoCmd struct {
	File string `arg:"" help:"File to sniff."`
}

func (c *infoCmd) Run() error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open %q: %w", c.File, err)
	}
	defer f.Close()

	b, kind, err := format.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %q: %w", c.File, err)
	}

	b.CheckTransparency()
	fmt.Printf("%s: format=%s dimensions=%dx%d transparency=%v alpha=%v\n",
		c.File, kind, b.Width, b.Height, b.HasTransparency, b.HasAlpha)
	return nil
}
