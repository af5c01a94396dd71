package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/romfs"
	"github.com/brettbedarf/romfs/config"
	"github.com/brettbedarf/romfs/export"
	"github.com/brettbedarf/romfs/internal/util"
)

func main() {
	// Stop writing files on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. Tree and listing
// output go to stdout, logs to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		configPath string
		extractDir string
		list       bool
		verbose    int
	)
	flags := flag.NewFlagSet("romfs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: romfs [-l] [-x DIR] [-c CONFIG] [-v N] <ROMFS IMAGE>\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flags.StringVar(&configPath, "c", "", "--config (shorthand)")
	flags.StringVar(&extractDir, "extract", "", "Extract the image below this directory")
	flags.StringVar(&extractDir, "x", "", "--extract (shorthand)")
	flags.BoolVar(&list, "list", false, "List every entry with its offset and size instead of the tree")
	flags.BoolVar(&list, "l", false, "--list (shorthand)")
	flags.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flags.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return 2
	}
	imagePath := flags.Arg(0)

	// Config file values first, then an explicit -v on top
	cfg := config.NewDefaultConfig()
	var cfgErr error
	if configPath != "" {
		cfg, cfgErr = config.NewConfigFromFile(configPath)
		if cfgErr != nil {
			cfg = config.NewDefaultConfig()
		}
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "v" || f.Name == "verbose" {
			cfg.Merge(&config.ConfigOverride{LogLvl: &verbose})
		}
	})

	util.InitializeLoggerTo(stderr, cfg.LogLvl)
	logger := util.GetLogger("main")
	if cfgErr != nil {
		logger.Error().Err(cfgErr).Str("config", configPath).Msg("Failed to load config file")
		return 1
	}
	logger.Debug().Str("image", imagePath).Str("extract", extractDir).Bool("list", list).Msg("romfs starting")

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	tree, err := romfs.ParseFile(imagePath, cfg)
	if err != nil {
		logger.Error().Err(err).Str("image", imagePath).Msg("Failed to parse image")
		return 1
	}
	logger.Info().Str("volume", tree.Header.VolumeName).Uint32("size", tree.Header.Size).
		Int("nodes", len(tree.Nodes)).Msg("Parsed image")

	if list {
		err = export.List(stdout, tree)
	} else {
		err = export.Print(stdout, tree.Root)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to write output")
		return 1
	}

	if extractDir == "" {
		return 0
	}

	report, err := export.NewExtractor(cfg, export.DiskSink{}).Extract(ctx, tree.Root, extractDir)
	if err != nil {
		logger.Error().Err(err).Str("dest", extractDir).Msg("Failed to extract image")
		return 1
	}
	logger.Info().Str("run", report.RunID.String()).Str("dest", extractDir).
		Int("directories", report.Dirs).Int("files", report.Files()).Msg("Extracted image")
	return 0
}
