package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/config"
)

const defaultOutputName = "merged_unique_apps.json"

type options struct {
	Dir    string `env:"SCREEN_CATALOG_DIR"`
	Output string `env:"SCREEN_MERGED_CATALOG"`
}

func main() {
	if err := run(flag.CommandLine, os.Args[1:], os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func run(fs *flag.FlagSet, args []string, out io.Writer) error {
	var opts options
	if err := config.ParseEnv(&opts); err != nil {
		return err
	}
	fs.StringVar(&opts.Dir, "dir", opts.Dir, "directory containing *_apps.json catalogs")
	fs.StringVar(&opts.Output, "out", opts.Output, "merged catalog path (default <dir>/"+defaultOutputName+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(opts.Dir) == "" {
		return errors.New("dir is required")
	}
	if opts.Output == "" {
		opts.Output = filepath.Join(opts.Dir, defaultOutputName)
	}

	merged, err := catalog.MergeDir(opts.Dir)
	if err != nil {
		return err
	}
	if err := catalog.WriteFile(opts.Output, merged); err != nil {
		return err
	}
	fmt.Fprintf(out, "Merged unique apps saved to: %s\n", opts.Output)
	fmt.Fprintf(out, "Total unique apps: %d\n", len(merged))
	return nil
}
