package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "custcrm/internal/errors"
	"custcrm/internal/events"
	"custcrm/internal/metrics"
	"custcrm/internal/model"
	"custcrm/internal/repository"
	"custcrm/internal/spreadsheet"
)

// Column names accepted for each customer field, in priority order. Matching
// is exact; the first non-empty cell wins.
var (
	firstNameColumns = []string{"first_name", "First Name", "firstName"}
	lastNameColumns  = []string{"last_name", "Last Name"}
	emailColumns     = []string{"email"}
	phoneColumns     = []string{"phone"}
	cityColumns      = []string{"city"}
	stateColumns     = []string{"state"}
	countryColumns   = []string{"country"}
)

// Upload is a spreadsheet submitted for import.
type Upload struct {
	Filename string
	Data     []byte
	UserID   uint
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	Imported int
}

// ImportService creates customers from spreadsheet rows.
type ImportService interface {
	Import(ctx context.Context, upload Upload) (*ImportResult, error)
}

type importService struct {
	repo      repository.CustomerRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewImportService builds an ImportService. A nil publisher disables events.
func NewImportService(repo repository.CustomerRepository, publisher events.Publisher, log zerolog.Logger) ImportService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &importService{repo: repo, publisher: publisher, log: log}
}

// Import writes one customer per data row, in file order. It stops at the
// first failing row and returns an *errors.ImportError; customers created
// before the failure are kept.
func (s *importService) Import(ctx context.Context, upload Upload) (*ImportResult, error) {
	imported, err := s.importRows(ctx, upload)
	metrics.CustomersImportedTotal.Add(float64(imported))

	event := events.ImportCompleted{
		Filename:   upload.Filename,
		Imported:   imported,
		UserID:     upload.UserID,
		OccurredAt: time.Now().UTC(),
	}

	if err != nil {
		importErr := &apperrors.ImportError{Imported: imported, Err: err}
		var rowErr *rowError
		reason := "unreadable"
		if errors.As(err, &rowErr) {
			importErr.Row = rowErr.row
			importErr.Err = rowErr.err
			reason = "row"
		}
		metrics.ImportFailuresTotal.WithLabelValues(reason).Inc()

		event.Failed = true
		event.FailedRow = importErr.Row
		event.Error = importErr.Error()
		s.publish(ctx, event)

		s.log.Warn().Err(importErr).Str("file", upload.Filename).Int("imported", imported).Msg("customer import aborted")
		return nil, importErr
	}

	s.publish(ctx, event)
	s.log.Info().Str("file", upload.Filename).Int("imported", imported).Msg("customers imported")
	return &ImportResult{Imported: imported}, nil
}

type rowError struct {
	row int
	err error
}

func (e *rowError) Error() string { return fmt.Sprintf("row %d: %v", e.row, e.err) }

func (s *importService) importRows(ctx context.Context, upload Upload) (int, error) {
	reader, err := spreadsheet.Open(upload.Filename, upload.Data)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	imported := 0
	for {
		row, err := reader.Next()
		if err == io.EOF {
			return imported, nil
		}
		if err != nil {
			return imported, &rowError{row: imported + 1, err: err}
		}

		customer := CustomerFromRow(row)
		if err := s.repo.Create(ctx, customer); err != nil {
			return imported, &rowError{row: imported + 1, err: err}
		}
		imported++
	}
}

func (s *importService) publish(ctx context.Context, event events.ImportCompleted) {
	if err := s.publisher.PublishImportCompleted(ctx, event); err != nil {
		s.log.Warn().Err(err).Msg("import event not delivered")
	}
}

// CustomerFromRow maps a spreadsheet row onto a new customer. Missing
// columns become empty strings.
func CustomerFromRow(row spreadsheet.Row) *model.Customer {
	return &model.Customer{
		FirstName: row.Resolve(firstNameColumns...),
		LastName:  row.Resolve(lastNameColumns...),
		Email:     row.Resolve(emailColumns...),
		Phone:     CoercePhone(row.Resolve(phoneColumns...)),
		City:      row.Resolve(cityColumns...),
		State:     row.Resolve(stateColumns...),
		Country:   row.Resolve(countryColumns...),
	}
}

// CoercePhone renders numeric phone cells without a fractional part or
// exponent, so 5551234567.0 and 5.551234567E+9 both become 5551234567.
// Anything else is returned unchanged.
func CoercePhone(value string) string {
	if !strings.ContainsAny(value, ".eE") {
		return value
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsInteger() {
		return value
	}
	return d.String()
}
