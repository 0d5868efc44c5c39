package interfaces

import (
	"context"

	"github.com/finsightlab/finsight/internal/models"
)

// AnalysisStore persists assembled portfolio analyses. The engine itself
// never reads back its own history; the store exists for API consumers.
type AnalysisStore interface {
	// SaveAnalysis persists an analysis for a user and returns its id.
	SaveAnalysis(ctx context.Context, userID string, analysis *models.PortfolioAnalysis) (string, error)

	// GetAnalysis retrieves a stored analysis by id.
	GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// ListAnalyses returns a user's stored analyses, newest first.
	ListAnalyses(ctx context.Context, userID string) ([]*models.AnalysisRecord, error)

	// Close releases store resources.
	Close() error
}
