package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	apperrors "custcrm/internal/errors"
	"custcrm/internal/metrics"
	"custcrm/internal/model"
	"custcrm/internal/report"
	"custcrm/internal/repository"
)

const (
	bulkReportTitle    = "Customers Report"
	profileReportTitle = "Customer Profile"
	bulkReportName     = "customers.pdf"
	pdfContentType     = "application/pdf"
)

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// ReportService renders customer PDF reports.
type ReportService interface {
	RenderAll(ctx context.Context) (*File, error)
	RenderOne(ctx context.Context, id uint) (*File, error)
}

type reportService struct {
	repo     repository.CustomerRepository
	media    MediaStore
	renderer report.Renderer
	log      zerolog.Logger
}

// NewReportService builds a ReportService.
func NewReportService(repo repository.CustomerRepository, media MediaStore, renderer report.Renderer, log zerolog.Logger) ReportService {
	return &reportService{repo: repo, media: media, renderer: renderer, log: log}
}

// RenderAll renders every customer ordered by first name.
func (s *reportService) RenderAll(ctx context.Context) (*File, error) {
	customers, err := s.repo.List(ctx, repository.ByFirstName)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	blocks := make([]report.Block, 0, len(customers))
	for i := range customers {
		blocks = append(blocks, s.block(&customers[i]))
	}

	content, err := s.render("bulk", report.Document{
		Title:  bulkReportTitle,
		Layout: report.BulkLayout,
		Blocks: blocks,
	})
	if err != nil {
		return nil, err
	}
	return &File{Name: bulkReportName, ContentType: pdfContentType, Content: content}, nil
}

// RenderOne renders a single customer's profile.
func (s *reportService) RenderOne(ctx context.Context, id uint) (*File, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	content, err := s.render("profile", report.Document{
		Title:  profileReportTitle,
		Layout: report.ProfileLayout,
		Blocks: []report.Block{s.block(customer)},
	})
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fmt.Sprintf("customer_%d.pdf", customer.ID),
		ContentType: pdfContentType,
		Content:     content,
	}, nil
}

func (s *reportService) render(kind string, doc report.Document) ([]byte, error) {
	content, err := s.renderer.Render(doc)
	if err != nil {
		metrics.ReportsRenderedTotal.WithLabelValues(kind, "error").Inc()
		return nil, &apperrors.RenderError{Err: err}
	}
	metrics.ReportsRenderedTotal.WithLabelValues(kind, "ok").Inc()
	return content, nil
}

// block builds the report entry for c. A photo that cannot be read or
// decoded degrades to the placeholder.
func (s *reportService) block(c *model.Customer) report.Block {
	block := report.Block{Rows: report.CustomerRows(c)}
	if !c.HasImage() {
		return block
	}

	raw, err := s.media.Read(*c.Image)
	if err == nil {
		block.Image, err = report.PrepareImage(raw)
	}
	if err != nil {
		block.Image = nil
		metrics.ReportImagesDegradedTotal.Inc()
		s.log.Warn().Err(err).Uint("customer_id", c.ID).Str("image", *c.Image).Msg("customer image replaced by placeholder")
	}
	return block
}
