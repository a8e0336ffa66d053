package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/app"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/config"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/dataset"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/enrich"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/util"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	in := flag.String("in", config.DefaultInputPath, "input CSV with a NAME column")
	out := flag.String("out", "", "output CSV (default derived from -in)")
	previewRows := flag.Int("preview", dataset.DefaultPreviewRows, "rows to print after writing; 0 disables the preview")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Debug(".env file not found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build services", zap.Error(err))
		return 1
	}
	defer container.Close()

	outputPath := *out
	if outputPath == "" {
		outputPath = config.OutputPathFor(*in)
	}

	opts := enrich.RunOptions{
		InputPath:   *in,
		OutputPath:  outputPath,
		PreviewRows: *previewRows,
	}
	if *previewRows > 0 {
		opts.Preview = os.Stdout
	}

	pipeline := enrich.NewPipeline(container.Fetcher, container.Archiver(), logger)
	report, err := pipeline.Run(ctx, opts)
	if err != nil {
		logger.Error("Enrichment failed",
			zap.String("input", *in),
			zap.Error(err))
		return 1
	}

	logger.Info("Done",
		zap.String("runID", report.RunID),
		zap.String("output", outputPath))
	return 0
}
