// Command enhance runs the adaptive enhancement pipeline over a list of
// images and prints a report block per image.
//
// Usage:
//
//	enhance [-o dir] [-w workers] [path ...]
//
// Without path arguments the comma separated INPUT_PATHS variable is used.
// Output placement follows the OUTPUT_* variables; -o and -w override
// OUTPUT_DIR and WORKERS. The exit status is 1 if any image failed and 2 on
// a usage error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/anime-shed/image-enhancer-go/internal/config"
	"github.com/anime-shed/image-enhancer-go/internal/container"
	"github.com/anime-shed/image-enhancer-go/internal/logger"
	"github.com/anime-shed/image-enhancer-go/internal/report"
	"github.com/anime-shed/image-enhancer-go/pkg/models"

	"github.com/sirupsen/logrus"
)

const usage = "Usage: enhance [-o dir] [-w workers] [path ...]\n\nEnhances each image and writes <prefix><name><suffix>.<format> to the configured output.\nWithout path arguments, paths are read from INPUT_PATHS (comma separated).\n"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("enhance", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	outDir := fs.String("o", "", "Output directory for the local backend. Overrides OUTPUT_DIR.")
	workers := fs.Int("w", 0, "Number of images enhanced in parallel. Overrides WORKERS.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	// Paths on the command line are trusted input.
	cfg.AllowLocalPaths = true

	// Reports go to stdout, so logs move to stderr.
	logger.SetOutput(os.Stderr)
	if os.Getenv("LOG_FORMAT") == "" {
		logger.Configure(os.Getenv("LOG_LEVEL"), "text")
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = cfg.InputPaths
	}
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize container: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := c.Service().EnhanceBatch(ctx, paths)
	if err := printResult(os.Stdout, result); err != nil {
		logger.WithError(err).Error("Failed to write report")
	}

	logger.WithFields(logrus.Fields{
		"images":    len(paths),
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Info("Batch finished")

	if result.Failed > 0 {
		return 1
	}
	return 0
}

func printResult(w io.Writer, result *models.BatchResult) error {
	console := report.NewConsoleWriter(w)
	for _, item := range result.Items {
		var err error
		if item.Report != nil {
			err = console.Write(*item.Report)
		} else {
			err = console.WriteFailure(item.Input, fmt.Errorf("%s", item.Error))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
