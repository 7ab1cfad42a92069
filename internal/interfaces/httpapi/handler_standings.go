package httpapi

import (
	"context"
	"net/http"

	"github.com/kickoffhq/clubsite/internal/domain/standing"
)

type standingDTO struct {
	Rank           int    `json:"rank"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	LogoURL        string `json:"logoUrl,omitempty"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type manualStandingsRequest struct {
	Rows []manualStandingRowRequest `json:"rows" validate:"required,min=1,dive"`
}

type manualStandingRowRequest struct {
	TeamID       string `json:"teamId" validate:"required"`
	TeamName     string `json:"teamName"`
	LogoURL      string `json:"logoUrl"`
	Wins         int    `json:"wins" validate:"min=0"`
	Draws        int    `json:"draws" validate:"min=0"`
	Losses       int    `json:"losses" validate:"min=0"`
	GoalsFor     int    `json:"goalsFor" validate:"min=0"`
	GoalsAgainst int    `json:"goalsAgainst" validate:"min=0"`
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	rows, err := h.standingsService.ListByCompetition(ctx, clubID, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTOs(ctx, rows))
}

// RecomputeStandings rebuilds the table for one competition from raw results.
// Any manual edits to the stored rows are overwritten.
func (h *Handler) RecomputeStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeStandings")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	rows, err := h.standingsService.Recompute(ctx, clubID, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute standings failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTOs(ctx, rows))
}

// ApplyManualStandings replaces the stored table with admin-entered tallies.
// Derived columns and ranks are recomputed server-side; clients never submit
// points or rank.
func (h *Handler) ApplyManualStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyManualStandings")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")

	var req manualStandingsRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tallies := make([]standing.Tally, 0, len(req.Rows))
	for _, row := range req.Rows {
		tallies = append(tallies, standing.Tally{
			TeamID:       row.TeamID,
			TeamName:     row.TeamName,
			LogoURL:      row.LogoURL,
			Wins:         row.Wins,
			Draws:        row.Draws,
			Losses:       row.Losses,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
		})
	}

	rows, err := h.standingsService.ApplyManualRows(ctx, clubID, competitionID, tallies)
	if err != nil {
		h.logger.WarnContext(ctx, "apply manual standings failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTOs(ctx, rows))
}

func standingsToDTOs(ctx context.Context, rows []standing.Standing) []standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingsToDTOs")
	defer span.End()

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingDTO{
			Rank:           row.Rank,
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			LogoURL:        row.LogoURL,
			Played:         row.Played,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}
	return items
}
