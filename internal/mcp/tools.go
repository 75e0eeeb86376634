package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/terrapump/internal/history"
	"github.com/meltforce/terrapump/internal/models"
	"github.com/meltforce/terrapump/internal/statskey"
)

// defaultDateRange returns from/to dates defaulting to the last 30 days.
func defaultDateRange(fromStr, toStr string) (string, string, error) {
	to := time.Now()
	if toStr != "" {
		t, err := parseFlexTime(toStr)
		if err != nil {
			return "", "", err
		}
		to = t
	}

	from := to.AddDate(0, 0, -30)
	if fromStr != "" {
		t, err := parseFlexTime(fromStr)
		if err != nil {
			return "", "", err
		}
		from = t
	}

	return from.Format("2006-01-02"), to.Format("2006-01-02"), nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Retrieve finalized workouts, newest first. Each workout includes its logged exercises with per-set reps and weights. Unilateral sets carry separate left/right values."),
	mcp.WithString("start", mcp.Description("Only include workouts starting on or after this date (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithString("end", mcp.Description("Only include workouts starting on or before this date")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

var toolGetPreviousStats = mcp.NewTool("get_previous_stats",
	mcp.WithDescription("Look up the cached last performance for one exercise configuration: set count and per-set reps/weights from the most recent time it was logged. Probes legacy key variants automatically."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Equipment type (bodyweight, barbell, cable, dumbbell, machine, plate_loaded)")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Tricep Pushdown')")),
	mcp.WithString("brand", mcp.Description("Brand name for machine/plate-loaded exercises (e.g. 'Hammer Strength')")),
	mcp.WithString("attachment", mcp.Description("Cable attachment name (e.g. 'V Bar'), or 'none'")),
)

var toolGetDailyEntries = mcp.NewTool("get_daily_entries",
	mcp.WithDescription("Retrieve daily health entries: bodyweight, sleep, calories, macros, steps, training notes, and cardio minutes."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to today.")),
)

var toolGetCatalog = mcp.NewTool("get_catalog",
	mcp.WithDescription("Retrieve the equipment catalog. Section selects what to return: brands, machines (requires brand), attachments, or library."),
	mcp.WithString("section", mcp.Required(), mcp.Description("Catalog section"), mcp.Enum("brands", "machines", "attachments", "library")),
	mcp.WithString("brand", mcp.Description("Brand ID, required when section is 'machines'")),
)

var toolGetTrainingVolume = mcp.NewTool("get_training_volume",
	mcp.WithDescription("Per-workout training volume over a date range: exercise count, total sets, and tonnage (sum of reps times weight, both sides for unilateral sets)."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	history.SortDescending(records)

	records, err = filterByStart(records, req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	limit := req.GetInt("limit", 20)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// filterByStart keeps records whose start falls inside the optional date
// bounds. Records with an unparsable (zero) start only survive an
// unbounded query.
func filterByStart(records []models.WorkoutRecord, startStr, endStr string) ([]models.WorkoutRecord, error) {
	if startStr == "" && endStr == "" {
		return records, nil
	}

	var lo, hi time.Time
	if startStr != "" {
		t, err := parseFlexTime(startStr)
		if err != nil {
			return nil, err
		}
		lo = t
	}
	if endStr != "" {
		t, err := parseFlexTime(endStr)
		if err != nil {
			return nil, err
		}
		hi = t.AddDate(0, 0, 1)
	}

	var out []models.WorkoutRecord
	for _, rec := range records {
		if rec.Start.IsZero() {
			continue
		}
		if !lo.IsZero() && rec.Start.Before(lo) {
			continue
		}
		if !hi.IsZero() && !rec.Start.Before(hi) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (h *handlers) getPreviousStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeStr, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	et, err := models.ParseEquipmentType(typeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	brand := req.GetString("brand", "")
	attachment := req.GetString("attachment", "")
	uid := UserIDFromContext(ctx)

	keys := statskey.CandidateKeys(et, exercise, brand, statskey.Slugify(brand), attachment)
	for _, key := range keys {
		stats, err := h.ds.GetPreviousStats(ctx, uid, key)
		if err != nil {
			h.log.Error("mcp get_previous_stats", "key", key, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		if stats == nil {
			continue
		}
		result, err := mcp.NewToolResultJSON(map[string]any{
			"key":   key,
			"stats": stats,
		})
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"key":   keys[0],
		"stats": nil,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDailyEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	entries, err := h.ds.ListDailyEntries(ctx, uid, from, to)
	if err != nil {
		h.log.Error("mcp get_daily_entries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError("section parameter is required"), nil
	}

	var payload any
	switch section {
	case "brands":
		payload, err = h.ds.ListBrands(ctx)
	case "machines":
		brand := req.GetString("brand", "")
		if brand == "" {
			return mcp.NewToolResultError("brand is required for the machines section"), nil
		}
		payload, err = h.ds.ListMachines(ctx, brand)
	case "attachments":
		payload, err = h.ds.ListAttachments(ctx)
	case "library":
		payload, err = h.ds.ListLibraryExercises(ctx)
	default:
		return mcp.NewToolResultError("unknown section: " + section), nil
	}
	if err != nil {
		h.log.Error("mcp get_catalog", "section", section, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	history.SortDescending(records)

	records, err = filterByStart(records, req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	summaries := make([]history.Summary, len(records))
	for i, rec := range records {
		summaries[i] = history.Summarize(rec)
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
