package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
	"github.com/lexledger/lexledger-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered catalog export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the service catalog as downloadable CSV or PDF.
type ExportService struct {
	repo   serviceRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(repo serviceRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{repo: repo, csv: csv, pdf: pdf, logger: logger}
}

// Services renders the filtered catalog in the requested format ("csv" or
// "pdf").
func (s *ExportService) Services(ctx context.Context, filter models.ServiceFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	filter.Page = 1
	filter.PageSize = 100
	dataset := export.Dataset{
		Headers: []string{"Name", "Category", "Price", "Duration", "Status", "Features", "Requirements", "FAQ Entries"},
	}
	for {
		services, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load services for export")
		}
		for _, svc := range services {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Name":         svc.Name,
				"Category":     svc.Category,
				"Price":        svc.Price,
				"Duration":     svc.Duration,
				"Status":       string(svc.Status),
				"Features":     svc.Features.Text(),
				"Requirements": svc.Requirements.Text(),
				"FAQ Entries":  fmt.Sprintf("%d", len(svc.FAQ)),
			})
		}
		if len(dataset.Rows) >= total || len(services) == 0 {
			break
		}
		filter.Page++
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	var (
		payload     []byte
		err         error
		contentType string
	)
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Service Catalog")
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("catalog export rendered",
		zap.String("format", format),
		zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("services-%s.%s", stamp, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}
