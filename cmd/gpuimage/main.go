// Command gpuimage applies gpuimage filters to still images.
//
// Usage:
//
//	gpuimage list [-resources dir]
//	gpuimage apply -in photo.jpg -out out.png -filter Toon [-adjust 40] [-backend cpu]
//	gpuimage run [-watch] preset.toml
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/gpuimage"
	_ "github.com/gogpu/gpuimage/backend/cpu"
	_ "github.com/gogpu/gpuimage/backend/wgpu"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  gpuimage list [-resources dir]
  gpuimage apply -in file -out file -filter name[,name...] [flags]
  gpuimage run [-watch] preset.(toml|yaml)

Run "gpuimage <command> -h" for the flags of a command.
`)
}

func newLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "gpuimage",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	l := newLogger(os.Getenv("GPUIMAGE_DEBUG") != "")
	gpuimage.SetLogger(slog.New(l))

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "list":
		err = runList(args)
	case "apply":
		err = runApply(l, args)
	case "run":
		err = runPreset(l, args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "gpuimage: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal(err)
	}
}
