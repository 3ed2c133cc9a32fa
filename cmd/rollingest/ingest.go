package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rollwright/voterroll/internal/common"
	"github.com/rollwright/voterroll/internal/extract"
	"github.com/rollwright/voterroll/internal/llm/gemini"
	"github.com/rollwright/voterroll/internal/normalize"
	"github.com/rollwright/voterroll/internal/ocr"
	"github.com/rollwright/voterroll/internal/pipeline"
	"github.com/rollwright/voterroll/internal/resolve"
)

var (
	flagAPIKey    string
	flagLegacyOCR bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Normalize source files and push voter records to the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		aliases := resolve.DefaultAliases()
		if cfg.Ingest.AliasFile != "" {
			var err error
			if aliases, err = resolve.LoadAliases(cfg.Ingest.AliasFile); err != nil {
				return err
			}
		}

		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		apiKey := flagAPIKey
		if apiKey == "" {
			apiKey = cfg.LLM.APIKey
		}

		extractor := gemini.NewClient(gemini.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)

		recognizer := ocr.NewTesseractRecognizer(ocr.Config{
			TessdataDir: cfg.OCR.TessdataDir,
			Languages:   cfg.OCR.Languages,
		}, logger)

		orch := pipeline.NewOrchestrator(
			logger,
			extract.NewXLSXReader(logger),
			extract.NewPDFReader(logger),
			recognizer,
			extractor,
			normalize.NewRowNormalizer(aliases, logger),
			store,
			pipeline.NewMetrics(prometheus.NewRegistry()),
		)

		res := orch.Run(ctx, args, pipeline.Options{
			APIKey:    apiKey,
			LegacyOCR: flagLegacyOCR,
		})

		for _, ev := range res.Events {
			fmt.Printf("%s  %s\n", ev.At.Format("15:04:05"), ev.Message)
		}
		fmt.Printf("\nextracted %d records, persisted %d (%d held for review, %d files failed)\n",
			res.TotalExtracted, res.TotalPersisted, len(res.Skipped), res.FailedFiles)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "extraction API key (defaults to GEMINI_API_KEY)")
	ingestCmd.Flags().BoolVar(&flagLegacyOCR, "legacy-ocr", false, "route images through local OCR instead of the extraction model")
}
