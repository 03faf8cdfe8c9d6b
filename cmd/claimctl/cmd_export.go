package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/export"
	"claimassist/internal/port"
	"claimassist/internal/repository/postgres"
	"claimassist/internal/service"
)

var exportFlags struct {
	format        string
	output        string
	insuranceType string
	status        string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored analyses to XLSX or CSV",
	Long: `Export reads analyses from the database and writes them as an XLSX
workbook (with a summary sheet) or a CSV file.

Usage:
  claimctl export                              # claim_analyses_<date>.xlsx
  claimctl export --format=csv -o pending.csv --status=pending`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", "xlsx", "Output format: xlsx or csv")
	f.StringVarP(&exportFlags.output, "output", "o", "", "Output path (default: claim_analyses_<date>.<format>)")
	f.StringVar(&exportFlags.insuranceType, "insurance-type", "", "Only export this insurance type")
	f.StringVar(&exportFlags.status, "status", "", "Only export this status: approved, pending or under_review")
}

func exportFilter(insuranceType, status string) (port.AnalysisFilter, error) {
	var filter port.AnalysisFilter
	if insuranceType != "" {
		t, err := domain.ParseInsuranceType(strings.ToLower(insuranceType))
		if err != nil {
			return filter, fmt.Errorf("%w: %q", err, insuranceType)
		}
		filter.InsuranceType = t
	}
	switch s := domain.ClaimStatus(status); s {
	case "":
	case domain.ClaimStatusApproved, domain.ClaimStatusPending, domain.ClaimStatusUnderReview:
		filter.Status = s
	default:
		return filter, fmt.Errorf("unknown status %q", status)
	}
	return filter, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(exportFlags.format)
	if format != "xlsx" && format != "csv" {
		return fmt.Errorf("unknown format %q (want xlsx or csv)", exportFlags.format)
	}
	filter, err := exportFilter(exportFlags.insuranceType, exportFlags.status)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := service.NewAnalysisService(postgres.NewAnalysisRepo(db), nil, nil, cfg)

	path := exportFlags.output
	if path == "" {
		path = export.BuildFilename("claim_analyses", format, time.Now())
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if format == "csv" {
		err = svc.ExportCSV(cmd.Context(), out, filter)
	} else {
		err = svc.ExportXLSX(cmd.Context(), out, filter)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}
