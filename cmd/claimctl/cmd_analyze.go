package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/pipeline"
)

var analyzeFlags struct {
	insuranceType string
	compact       bool
	noJitter      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the intake pipeline on a local claim document",
	Long: `Analyze runs quality assessment, field extraction, validation, risk
scoring and routing on one document and prints the result as JSON.
Nothing is uploaded or persisted.

Usage:
  claimctl analyze --type=health bill.png
  claimctl analyze --type=vehicle --no-jitter estimate.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.insuranceType, "type", "t", "health", "Insurance type: health, life, vehicle, travel or property")
	f.BoolVar(&analyzeFlags.compact, "compact", false, "Print JSON on a single line")
	f.BoolVar(&analyzeFlags.noJitter, "no-jitter", false, "Disable scoring jitter for reproducible output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if analyzeFlags.noJitter {
		cfg.Pipeline.Jitter = false
	}

	p, err := pipeline.FromConfig(cfg, nil)
	if err != nil {
		return err
	}

	maxBytes := cfg.Server.MaxFileSizeMB * 1024 * 1024
	doc, err := loadDocument(args[0], analyzeFlags.insuranceType, maxBytes)
	if err != nil {
		return err
	}

	result := p.Analyze(cmd.Context(), doc)
	return writeResult(cmd.OutOrStdout(), result, !analyzeFlags.compact)
}

// loadDocument reads a local file and applies the same acceptance rules as
// the upload API.
func loadDocument(path, insuranceType string, maxBytes int64) (domain.SubmittedDocument, error) {
	t, err := domain.ParseInsuranceType(strings.ToLower(insuranceType))
	if err != nil {
		return domain.SubmittedDocument{}, fmt.Errorf("%w: %q", err, insuranceType)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return domain.SubmittedDocument{}, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.SubmittedDocument{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return domain.SubmittedDocument{}, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return domain.SubmittedDocument{}, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return domain.SubmittedDocument{}, domain.ErrEmptyDocument
	}

	contentType := http.DetectContentType(data)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return domain.SubmittedDocument{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}

	return domain.SubmittedDocument{
		Bytes:         data,
		ContentType:   contentType,
		FileName:      filepath.Base(path),
		InsuranceType: t,
	}, nil
}

func writeResult(w io.Writer, result *domain.PipelineResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
