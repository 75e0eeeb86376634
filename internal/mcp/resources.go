package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/terrapump/internal/history"
	"github.com/meltforce/terrapump/internal/models"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListWorkouts(ctx, uid)
	if err != nil {
		return nil, err
	}
	history.SortDescending(records)

	cutoff := time.Now().AddDate(0, 0, -14)
	var recent []models.WorkoutRecord
	for _, rec := range records {
		if rec.Start.After(cutoff) {
			recent = append(recent, rec)
		}
	}

	data, err := json.Marshal(recent)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) catalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	brands, err := h.ds.ListBrands(ctx)
	if err != nil {
		return nil, err
	}

	machines := make(map[string][]models.Machine, len(brands))
	for _, b := range brands {
		ms, err := h.ds.ListMachines(ctx, b.ID)
		if err != nil {
			h.log.Warn("catalog resource: machines fetch failed", "brand", b.ID, "error", err)
			continue
		}
		machines[b.ID] = ms
	}

	attachments, err := h.ds.ListAttachments(ctx)
	if err != nil {
		h.log.Warn("catalog resource: attachments fetch failed", "error", err)
	}

	library, err := h.ds.ListLibraryExercises(ctx)
	if err != nil {
		h.log.Warn("catalog resource: library fetch failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"brands":      brands,
		"machines":    machines,
		"attachments": attachments,
		"library":     library,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
