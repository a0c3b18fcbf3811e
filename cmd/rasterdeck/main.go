// Command rasterdeck is a thin CLI around the core codec packages, for
// manually exercising decode/encode without writing a Go program.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type cli struct {
	Convert convertCmd `cmd:"" help:"Decode one file and re-encode it in another format."`
	Batch   batchCmd   `cmd:"" help:"Convert every file in a folder, possibly in parallel."`
	Info    infoCmd    `cmd:"" help:"Sniff a file's format and print its dimensions."`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("rasterdeck"),
		kong.Description("Decode and encode BMP, Netpbm, XBM, XPM and XWD rasters."),
		kong.UsageOnError(),
	)

	if err := kctx.Run(); err != nil {
		slog.Error("rasterdeck", "error", err)
		os.Exit(1)
	}
}
