package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Config for the legacy Tesseract path.
type Config struct {
	TessdataDir string // optional explicit tessdata prefix
	Languages   string // e.g. "eng+mar"
}

// TesseractRecognizer implements extract.Recognizer over gosseract. A fresh
// client is created per call; gosseract clients are not safe to reuse across
// images with different settings.
type TesseractRecognizer struct {
	cfg    Config
	logger *slog.Logger
}

func NewTesseractRecognizer(cfg Config, logger *slog.Logger) *TesseractRecognizer {
	if cfg.Languages == "" {
		cfg.Languages = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractRecognizer{cfg: cfg, logger: logger}
}

func (t *TesseractRecognizer) RecognizeText(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			t.logger.Warn("tesseract client close error", "error", err)
		}
	}()

	if t.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Languages); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr extraction failed: %w", err)
	}

	t.logger.Info("ocr.recognize.ok",
		"image", imagePath,
		"bytes", len(text),
		"lang", t.cfg.Languages,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
