// Package analysisdb persists portfolio analyses using BadgerHold.
package analysisdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
	"github.com/finsightlab/finsight/internal/models"
)

// Store implements interfaces.AnalysisStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new AnalysisStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create analysis db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("AnalysisDB opened")
	return &Store{db: db, logger: logger}, nil
}

// SaveAnalysis stores an analysis under a fresh id. The record copies the
// analysis value, so later mutations by the caller do not affect what was
// persisted.
func (s *Store) SaveAnalysis(_ context.Context, userID string, analysis *models.PortfolioAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("cannot save nil analysis")
	}

	record := &models.AnalysisRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Analysis:  *analysis,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.db.Insert(record.ID, record); err != nil {
		return "", fmt.Errorf("failed to save analysis for user '%s': %w", userID, err)
	}

	s.logger.Debug().Str("id", record.ID).Str("user_id", userID).Msg("Analysis saved")
	return record.ID, nil
}

// GetAnalysis retrieves a stored analysis by id.
func (s *Store) GetAnalysis(_ context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := s.db.Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("analysis '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get analysis '%s': %w", id, err)
	}
	return &record, nil
}

// ListAnalyses returns a user's stored analyses, newest first.
func (s *Store) ListAnalyses(_ context.Context, userID string) ([]*models.AnalysisRecord, error) {
	var records []models.AnalysisRecord
	if err := s.db.Find(&records, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list analyses for user '%s': %w", userID, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	out := make([]*models.AnalysisRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close analysis db: %w", err)
	}
	return nil
}

// Ensure Store implements AnalysisStore
var _ interfaces.AnalysisStore = (*Store)(nil)
