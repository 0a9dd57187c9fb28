package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/repository"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

// ErrInvalidImport is returned for an import log with an unknown method or no activities
var ErrInvalidImport = errors.New("invalid import parameters")

// ImportService records import events
type ImportService struct {
	repo  *repository.ImportLogRepository
	clock timeutil.Clock
}

// NewImportService creates a new import service
func NewImportService(repo *repository.ImportLogRepository, clock timeutil.Clock) *ImportService {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &ImportService{repo: repo, clock: clock}
}

// Log validates and stores an import event. Miles are rounded to two decimals.
func (s *ImportService) Log(method string, count int, totalMiles float64) (*models.ImportLog, error) {
	if method != models.ImportMethodGPX && method != models.ImportMethodStrava {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidImport, method)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidImport)
	}
	if math.IsNaN(totalMiles) || math.IsInf(totalMiles, 0) {
		totalMiles = 0
	}

	entry := &models.ImportLog{
		Method:     method,
		Count:      count,
		TotalMiles: math.Round(totalMiles*100) / 100,
		CreatedAt:  s.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Insert(entry); err != nil {
		return nil, fmt.Errorf("failed to log import: %w", err)
	}
	return entry, nil
}

// Summary returns import totals per method
func (s *ImportService) Summary() ([]models.ImportSummary, error) {
	return s.repo.Summary()
}
