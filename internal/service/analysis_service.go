package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/export"
	"claimassist/internal/pdfinfo"
	"claimassist/internal/port"
)

// DefaultDocumentType is recorded when the uploader does not name one.
const DefaultDocumentType = "claim_document"

// MaxExportRows caps how many analyses a single export renders.
const MaxExportRows = 5000

// DocumentAnalyzer runs the intake pipeline over one document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, doc domain.SubmittedDocument) *domain.PipelineResult
}

// AnalyzeInput is the DTO for a claim document submission.
type AnalyzeInput struct {
	FileName       string
	Size           int64
	Body           io.Reader
	InsuranceType  string
	DocumentType   string
	ClaimReference string
}

// AnalysisService defines the claim analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.ClaimAnalysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error)
	List(ctx context.Context, filter port.AnalysisFilter, offset, limit int) ([]domain.ClaimAnalysis, int, error)
	Stats(ctx context.Context) (*domain.AnalysisStats, error)
	GetDownloadURL(ctx context.Context, analysis *domain.ClaimAnalysis) (string, error)
	Reanalyze(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error)
	ExportXLSX(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error
	ExportCSV(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error
}

type analysisService struct {
	repo     port.AnalysisRepository
	storage  port.ObjectStorage
	analyzer DocumentAnalyzer
	bucket   string
	maxBytes int64
	presign  int64
	now      func() time.Time
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	repo port.AnalysisRepository,
	storage port.ObjectStorage,
	analyzer DocumentAnalyzer,
	cfg *config.Config,
) AnalysisService {
	return &analysisService{
		repo:     repo,
		storage:  storage,
		analyzer: analyzer,
		bucket:   cfg.S3.Bucket,
		maxBytes: cfg.Server.MaxFileSizeMB * 1024 * 1024,
		presign:  cfg.S3.PresignExpiry,
		now:      time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input AnalyzeInput) (*domain.ClaimAnalysis, error) {
	insuranceType, err := domain.ParseInsuranceType(strings.ToLower(strings.TrimSpace(input.InsuranceType)))
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	// Magic bytes decide the content type; the extension only gates the upload.
	detected := http.DetectContentType(data)
	fileType, ok := domain.AllowedContentTypes[detected]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	contentType := domain.AllowedFileTypes[fileType]

	pages := 1
	if fileType == domain.FileTypePDF {
		info, err := pdfinfo.Inspect(data)
		if err != nil {
			log.Printf("analysisService.Analyze: pdf inspection failed for %s: %v", input.FileName, err)
			pages = 0
		} else {
			pages = info.Pages
		}
	}

	id := uuid.New()
	key := fmt.Sprintf("claims/%s/%s/%s", insuranceType, id, filepath.Base(input.FileName))

	log.Printf("analysisService.Analyze: uploading %s (%s, %d bytes, type %s)",
		input.FileName, contentType, len(data), insuranceType)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("analysisService.Analyze: storage upload failed for %s: %v", id, err)
		return nil, domain.ErrUploadFailed
	}

	result := s.analyzer.Analyze(ctx, domain.SubmittedDocument{
		Bytes:         data,
		ContentType:   contentType,
		FileName:      input.FileName,
		InsuranceType: insuranceType,
	})

	analysis, err := s.buildAnalysis(id, input, result, contentType, int64(len(data)), pages, key)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, analysis); err != nil {
		log.Printf("analysisService.Analyze: persisting analysis %s failed: %v", id, err)
		if delErr := s.storage.Delete(ctx, s.bucket, key); delErr != nil {
			log.Printf("analysisService.Analyze: cleanup of %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	return analysis, nil
}

func (s *analysisService) buildAnalysis(
	id uuid.UUID,
	input AnalyzeInput,
	result *domain.PipelineResult,
	contentType string,
	size int64,
	pages int,
	key string,
) (*domain.ClaimAnalysis, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding pipeline result: %w", err)
	}

	docType := strings.TrimSpace(input.DocumentType)
	if docType == "" {
		docType = DefaultDocumentType
	}
	ref := strings.TrimSpace(input.ClaimReference)
	if ref == "" {
		ref = NewClaimReference(s.now())
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	return &domain.ClaimAnalysis{
		ID:                   id,
		ClaimReference:       ref,
		InsuranceType:        result.InsuranceType,
		DocumentType:         docType,
		FileName:             id.String() + ext,
		OriginalName:         input.FileName,
		ContentType:          contentType,
		FileSize:             size,
		PageCount:            pages,
		StorageBucket:        s.bucket,
		StorageKey:           key,
		Action:               result.Decision.Action,
		Status:               result.Decision.Status,
		RequiresHuman:        result.Decision.RequiresHuman,
		RejectionProbability: result.RejectionProbability,
		HealthScore:          result.HealthScore,
		ClaimAmount:          result.ClaimAmount,
		Result:               raw,
		ProcessedAt:          result.ProcessedAt,
	}, nil
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *analysisService) List(ctx context.Context, filter port.AnalysisFilter, offset, limit int) ([]domain.ClaimAnalysis, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *analysisService) Stats(ctx context.Context) (*domain.AnalysisStats, error) {
	return s.repo.Stats(ctx)
}

func (s *analysisService) GetDownloadURL(ctx context.Context, analysis *domain.ClaimAnalysis) (string, error) {
	return s.storage.GetPresignedURL(ctx, analysis.StorageBucket, analysis.StorageKey, s.presign)
}

// Reanalyze runs the pipeline again over a stored document and records the
// outcome as a new analysis. The new analysis shares the original's stored
// object, so a failed insert leaves storage untouched.
func (s *analysisService) Reanalyze(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error) {
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Download(ctx, prev.StorageBucket, prev.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", prev.StorageKey, err)
	}

	log.Printf("analysisService.Reanalyze: re-running pipeline for %s (%s, %d bytes)", id, prev.OriginalName, len(data))

	result := s.analyzer.Analyze(ctx, domain.SubmittedDocument{
		Bytes:         data,
		ContentType:   prev.ContentType,
		FileName:      prev.OriginalName,
		InsuranceType: prev.InsuranceType,
	})

	newID := uuid.New()
	analysis, err := s.buildAnalysis(newID, AnalyzeInput{
		FileName:       prev.OriginalName,
		DocumentType:   prev.DocumentType,
		ClaimReference: prev.ClaimReference,
	}, result, prev.ContentType, int64(len(data)), prev.PageCount, prev.StorageKey)
	if err != nil {
		return nil, err
	}
	analysis.StorageBucket = prev.StorageBucket

	if err := s.repo.Create(ctx, analysis); err != nil {
		log.Printf("analysisService.Reanalyze: persisting analysis %s failed: %v", newID, err)
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}
	return analysis, nil
}

func (s *analysisService) ExportXLSX(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error {
	analyses, _, err := s.repo.List(ctx, filter, 0, MaxExportRows)
	if err != nil {
		return fmt.Errorf("listing analyses for export: %w", err)
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("loading stats for export: %w", err)
	}
	log.Printf("analysisService.ExportXLSX: exporting %d analyses", len(analyses))
	return export.WriteXLSX(w, analyses, stats)
}

func (s *analysisService) ExportCSV(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error {
	analyses, _, err := s.repo.List(ctx, filter, 0, MaxExportRows)
	if err != nil {
		return fmt.Errorf("listing analyses for export: %w", err)
	}
	if _, err := w.Write(export.BOM); err != nil {
		return err
	}
	cw := export.NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteAnalyses(analyses); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// NewClaimReference returns a reference of the form CLMyyyymmddNNNN.
func NewClaimReference(now time.Time) string {
	return fmt.Sprintf("CLM%s%04d", now.Format("20060102"), 1000+rand.IntN(9000))
}
