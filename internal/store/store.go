// Package store persists completed analyses.
package store

import (
	"context"

	"github.com/ecotrace/carbon-cli/internal/model"
)

// ListFilter specifies criteria for listing analyses.
type ListFilter struct {
	URL    string `json:"url,omitempty"`
	Grade  string `json:"grade,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analysis pipeline.
type Store interface {
	SaveAnalysis(ctx context.Context, a *model.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	ListAnalyses(ctx context.Context, filter ListFilter) ([]model.Analysis, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, databaseURL, sqlitePath string) (Store, error) {
	if driver == "postgres" {
		return NewPostgres(ctx, databaseURL)
	}
	return NewSQLite(sqlitePath)
}
