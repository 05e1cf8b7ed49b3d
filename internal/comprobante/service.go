package comprobante

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mxpos/comprobante-tracker/internal/extraction"
	"github.com/mxpos/comprobante-tracker/internal/ocr"
)

// ErrNotPending is returned when approving or rejecting a comprobante
// that already left the pending state.
var ErrNotPending = errors.New("comprobante is not pending review")

// IDGenerator generates unique IDs for comprobantes
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles comprobante operations
type Service struct {
	db          DB
	source      ocr.TextSource
	storage     Storage
	engine      *extraction.Engine
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, source ocr.TextSource, storage Storage, engine *extraction.Engine) *Service {
	return &Service{
		db:          db,
		source:      source,
		storage:     storage,
		engine:      engine,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, source ocr.TextSource, storage Storage, engine *extraction.Engine, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		source:      source,
		storage:     storage,
		engine:      engine,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Remove special characters, keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Replace multiple spaces with single space
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "comprobante"
	}

	return base + ext
}

// ProcessComprobante stores an uploaded receipt image, runs text
// recognition and field extraction on it, and saves the resulting
// record in pending state. A recognition failure does not fail the
// upload; the comprobante is kept in error_processing so the reviewer
// can still look at the image.
func (s *Service) ProcessComprobante(filename string, data []byte, contentType string, sale SaleInfo) (*Comprobante, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	// Sanitize filename to clean up phone-generated long filenames
	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.source.RecognizeText(data, contentType)
	if err != nil {
		slog.Error("Failed to recognize receipt text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		text = ""
	}

	receipt := s.engine.Extract(text)
	if err != nil && receipt.ProcessingError == "" {
		receipt.ProcessingError = err.Error()
	}

	status := StatusPending
	if receipt.ProcessingError != "" {
		status = StatusErrorProcessing
	}

	c := &Comprobante{
		ID:                id,
		SaleID:            sale.ID,
		SaleTotal:         sale.Total,
		SaleDate:          sale.Date,
		SaleAccountHolder: sale.AccountHolder,
		Bank:              receipt.Bank,
		Amount:            receipt.Amount,
		SenderAccount:     receipt.SenderAccount,
		Reference:         receipt.Reference,
		TransferDate:      receipt.TransferDate,
		Beneficiary:       receipt.Beneficiary,
		RawText:           receipt.RawText,
		ProcessingError:   receipt.ProcessingError,
		Status:            status,
		Filename:          savedPath,
		ContentType:       contentType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.db.SaveComprobante(c); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving comprobante to database: %w", err)
	}

	return c, nil
}

// Validation compares a comprobante's extracted fields against the sale
// it claims to pay for.
func (s *Service) Validation(id string) (*extraction.ValidationResult, error) {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return nil, fmt.Errorf("getting comprobante: %w", err)
	}

	receipt := &extraction.Receipt{
		Bank:          c.Bank,
		Amount:        c.Amount,
		SenderAccount: c.SenderAccount,
		Reference:     c.Reference,
		TransferDate:  c.TransferDate,
		Beneficiary:   c.Beneficiary,
	}
	sale := extraction.SaleReference{
		ID:            c.SaleID,
		Total:         c.SaleTotal,
		Date:          c.SaleDate,
		AccountHolder: c.SaleAccountHolder,
	}

	result, err := extraction.Validate(receipt, sale, s.db.IsReferenceUsed)
	if err != nil {
		return nil, fmt.Errorf("validating comprobante: %w", err)
	}
	return &result, nil
}

// Approve applies any reviewer overrides, marks the comprobante
// validated and consumes its reference code. Only pending comprobantes
// can be approved.
func (s *Service) Approve(id string, overrides *FieldOverrides) (*Comprobante, error) {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return nil, fmt.Errorf("getting comprobante: %w", err)
	}

	if c.Status != StatusPending {
		return nil, fmt.Errorf("approving comprobante %s: %w", id, ErrNotPending)
	}

	if overrides != nil {
		if overrides.Amount != nil {
			c.Amount = overrides.Amount
		}
		if overrides.SenderAccount != nil {
			c.SenderAccount = *overrides.SenderAccount
		}
		if overrides.Reference != nil {
			c.Reference = *overrides.Reference
		}
		if overrides.TransferDate != nil {
			c.TransferDate = overrides.TransferDate
		}
		if overrides.Beneficiary != nil {
			c.Beneficiary = *overrides.Beneficiary
		}
	}

	c.Status = StatusValidated
	c.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveComprobante(c); err != nil {
		return nil, fmt.Errorf("saving comprobante: %w", err)
	}

	if c.Reference != "" {
		if err := s.db.MarkReferenceUsed(c.Reference, c.ID); err != nil {
			return nil, fmt.Errorf("marking reference used: %w", err)
		}
	}

	return c, nil
}

// Reject marks a pending comprobante rejected with the reviewer's reason.
func (s *Service) Reject(id string, reason string) (*Comprobante, error) {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return nil, fmt.Errorf("getting comprobante: %w", err)
	}

	if c.Status != StatusPending {
		return nil, fmt.Errorf("rejecting comprobante %s: %w", id, ErrNotPending)
	}

	c.Status = StatusRejected
	c.RejectReason = reason
	c.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveComprobante(c); err != nil {
		return nil, fmt.Errorf("saving comprobante: %w", err)
	}

	return c, nil
}

// GetComprobante retrieves a comprobante by ID
func (s *Service) GetComprobante(id string) (*Comprobante, error) {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return nil, fmt.Errorf("getting comprobante: %w", err)
	}
	return c, nil
}

// ListComprobantes returns all comprobantes
func (s *Service) ListComprobantes() ([]*Comprobante, error) {
	comprobantes, err := s.db.ListComprobantes()
	if err != nil {
		return nil, fmt.Errorf("listing comprobantes: %w", err)
	}
	return comprobantes, nil
}

// DeleteComprobante removes a comprobante and its file
func (s *Service) DeleteComprobante(id string) error {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return fmt.Errorf("getting comprobante for deletion: %w", err)
	}

	if err := s.storage.Delete(c.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", c.Filename, "error", err)
	}

	if err := s.db.DeleteComprobante(id); err != nil {
		return fmt.Errorf("deleting comprobante from database: %w", err)
	}
	return nil
}

// GetComprobanteFile retrieves the file data for a comprobante
func (s *Service) GetComprobanteFile(id string) ([]byte, string, error) {
	c, err := s.db.GetComprobante(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting comprobante: %w", err)
	}

	data, err := s.storage.Get(c.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting comprobante file: %w", err)
	}

	return data, c.ContentType, nil
}
