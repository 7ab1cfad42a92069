package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
)

type clubDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
}

type indexRowDTO struct {
	Key             string    `json:"key"`
	MatchID         string    `json:"matchId"`
	CompetitionID   string    `json:"competitionId"`
	RoundID         string    `json:"roundId"`
	MatchDate       string    `json:"matchDate"`
	MatchTime       string    `json:"matchTime,omitempty"`
	CompetitionName string    `json:"competitionName"`
	RoundName       string    `json:"roundName"`
	HomeTeamID      string    `json:"homeTeamId"`
	AwayTeamID      string    `json:"awayTeamId"`
	HomeTeamName    string    `json:"homeTeamName"`
	AwayTeamName    string    `json:"awayTeamName"`
	HomeTeamLogo    string    `json:"homeTeamLogo,omitempty"`
	AwayTeamLogo    string    `json:"awayTeamLogo,omitempty"`
	Score           *scoreDTO `json:"score,omitempty"`
}

type indexMetaDTO struct {
	UpdatedAt string `json:"updatedAt"`
	Count     int    `json:"count"`
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	clubs, err := h.clubService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, clubToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	item, err := h.clubService.Get(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "get club failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubToDTO(ctx, item))
}

// ListClubMatches serves the flattened public match index for one club. A
// club whose index has never been built gets a synchronous backfill on first
// read.
func (h *Handler) ListClubMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubMatches")
	defer span.End()

	clubID := r.PathValue("clubID")
	rows, err := h.matchIndexService.ListClubMatches(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list club matches failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]indexRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, indexRowToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClubMatchIndexMeta(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClubMatchIndexMeta")
	defer span.End()

	clubID := r.PathValue("clubID")
	meta, exists, err := h.matchIndexService.Meta(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "get index meta failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, indexMetaDTO{
		UpdatedAt: meta.UpdatedAt.UTC().Format(time.RFC3339),
		Count:     meta.Count,
	})
}

// BackfillClubMatchIndex rebuilds the whole index for one club from the raw
// match records. The rebuild is idempotent; rerunning it repairs any partial
// state a failed run left behind.
func (h *Handler) BackfillClubMatchIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BackfillClubMatchIndex")
	defer span.End()

	clubID := r.PathValue("clubID")
	meta, err := h.matchIndexService.Backfill(ctx, clubID)
	if err != nil {
		h.logger.ErrorContext(ctx, "index backfill failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, indexMetaDTO{
		UpdatedAt: meta.UpdatedAt.UTC().Format(time.RFC3339),
		Count:     meta.Count,
	})
}

func clubToDTO(ctx context.Context, v club.Club) clubDTO {
	ctx, span := startSpan(ctx, "httpapi.clubToDTO")
	defer span.End()

	return clubDTO{
		ID:        v.ID,
		Name:      v.Name,
		Slug:      v.Slug,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func indexRowToDTO(ctx context.Context, row matchindex.Row) indexRowDTO {
	ctx, span := startSpan(ctx, "httpapi.indexRowToDTO")
	defer span.End()

	var score *scoreDTO
	if row.ScoreHome != nil && row.ScoreAway != nil {
		score = &scoreDTO{Home: *row.ScoreHome, Away: *row.ScoreAway}
	}

	return indexRowDTO{
		Key:             row.Key(),
		MatchID:         row.MatchID,
		CompetitionID:   row.CompetitionID,
		RoundID:         row.RoundID,
		MatchDate:       row.MatchDate,
		MatchTime:       row.MatchTime,
		CompetitionName: row.CompetitionName,
		RoundName:       row.RoundName,
		HomeTeamID:      row.HomeTeamID,
		AwayTeamID:      row.AwayTeamID,
		HomeTeamName:    row.HomeTeamName,
		AwayTeamName:    row.AwayTeamName,
		HomeTeamLogo:    row.HomeTeamLogo,
		AwayTeamLogo:    row.AwayTeamLogo,
		Score:           score,
	}
}
