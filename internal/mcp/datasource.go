package mcp

import (
	"context"

	"github.com/meltforce/terrapump/internal/models"
	"github.com/meltforce/terrapump/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error)
	GetPreviousStats(ctx context.Context, userID int, key string) (*models.PreviousStats, error)
	ListDailyEntries(ctx context.Context, userID int, from, to string) ([]models.DailyEntry, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListMachines(ctx context.Context, brandID string) ([]models.Machine, error)
	ListAttachments(ctx context.Context) ([]models.Attachment, error)
	ListLibraryExercises(ctx context.Context) ([]models.LibraryExercise, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
