package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/usecase"
)

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type matchDTO struct {
	ID            string    `json:"id"`
	ClubID        string    `json:"clubId"`
	CompetitionID string    `json:"competitionId"`
	RoundID       string    `json:"roundId"`
	HomeTeamID    string    `json:"homeTeamId"`
	AwayTeamID    string    `json:"awayTeamId"`
	MatchDate     string    `json:"matchDate"`
	MatchTime     string    `json:"matchTime,omitempty"`
	Score         *scoreDTO `json:"score,omitempty"`
	HomeTeamName  string    `json:"homeTeamName,omitempty"`
	AwayTeamName  string    `json:"awayTeamName,omitempty"`
	HomeTeamLogo  string    `json:"homeTeamLogo,omitempty"`
	AwayTeamLogo  string    `json:"awayTeamLogo,omitempty"`
}

type matchCreateRequest struct {
	HomeTeamID   string    `json:"homeTeamId" validate:"required"`
	AwayTeamID   string    `json:"awayTeamId" validate:"required"`
	MatchDate    string    `json:"matchDate" validate:"required"`
	MatchTime    string    `json:"matchTime"`
	Score        *scoreDTO `json:"score"`
	HomeTeamName string    `json:"homeTeamName"`
	AwayTeamName string    `json:"awayTeamName"`
	HomeTeamLogo string    `json:"homeTeamLogo"`
	AwayTeamLogo string    `json:"awayTeamLogo"`
}

// matchUpdateRequest is a partial edit. Absent fields stay untouched; the
// score is set with "score" and cleared with "clearScore".
type matchUpdateRequest struct {
	HomeTeamID   *string   `json:"homeTeamId"`
	AwayTeamID   *string   `json:"awayTeamId"`
	MatchDate    *string   `json:"matchDate"`
	MatchTime    *string   `json:"matchTime"`
	Score        *scoreDTO `json:"score"`
	ClearScore   bool      `json:"clearScore"`
	HomeTeamName *string   `json:"homeTeamName"`
	AwayTeamName *string   `json:"awayTeamName"`
	HomeTeamLogo *string   `json:"homeTeamLogo"`
	AwayTeamLogo *string   `json:"awayTeamLogo"`
}

func (h *Handler) ListMatchesByRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByRound")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	roundID := r.PathValue("roundID")
	matches, err := h.matchService.ListByRound(ctx, clubID, competitionID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "club_id", clubID, "competition_id", competitionID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	clubID := r.PathValue("clubID")
	ref := matchRefFromRequest(r)
	item, err := h.matchService.Get(ctx, clubID, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "club_id", clubID, "match_id", ref.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, item))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	roundID := r.PathValue("roundID")

	var req matchCreateRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, clubID, match.Match{
		ClubID:        clubID,
		CompetitionID: competitionID,
		RoundID:       roundID,
		HomeTeamID:    req.HomeTeamID,
		AwayTeamID:    req.AwayTeamID,
		MatchDate:     strings.TrimSpace(req.MatchDate),
		MatchTime:     strings.TrimSpace(req.MatchTime),
		Score:         scoreFromDTO(req.Score),
		HomeTeamName:  req.HomeTeamName,
		AwayTeamName:  req.AwayTeamName,
		HomeTeamLogo:  req.HomeTeamLogo,
		AwayTeamLogo:  req.AwayTeamLogo,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(ctx, created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	clubID := r.PathValue("clubID")
	ref := matchRefFromRequest(r)

	var req matchUpdateRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Score != nil && req.ClearScore {
		writeError(ctx, w, fmt.Errorf("%w: score and clearScore are mutually exclusive", usecase.ErrInvalidInput))
		return
	}

	patch := match.Patch{
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		MatchDate:    req.MatchDate,
		MatchTime:    req.MatchTime,
		HomeTeamName: req.HomeTeamName,
		AwayTeamName: req.AwayTeamName,
		HomeTeamLogo: req.HomeTeamLogo,
		AwayTeamLogo: req.AwayTeamLogo,
	}
	if req.Score != nil || req.ClearScore {
		patch.ScoreSet = true
		patch.Score = scoreFromDTO(req.Score)
	}

	updated, err := h.matchService.Update(ctx, clubID, ref, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "club_id", clubID, "match_id", ref.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	clubID := r.PathValue("clubID")
	ref := matchRefFromRequest(r)
	if err := h.matchService.Delete(ctx, clubID, ref); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "club_id", clubID, "match_id", ref.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func matchRefFromRequest(r *http.Request) match.Ref {
	return match.Ref{
		CompetitionID: r.PathValue("competitionID"),
		RoundID:       r.PathValue("roundID"),
		MatchID:       r.PathValue("matchID"),
	}
}

func scoreFromDTO(v *scoreDTO) *match.Score {
	if v == nil {
		return nil
	}
	return &match.Score{Home: v.Home, Away: v.Away}
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	var score *scoreDTO
	if v.Score != nil {
		score = &scoreDTO{Home: v.Score.Home, Away: v.Score.Away}
	}

	return matchDTO{
		ID:            v.ID,
		ClubID:        v.ClubID,
		CompetitionID: v.CompetitionID,
		RoundID:       v.RoundID,
		HomeTeamID:    v.HomeTeamID,
		AwayTeamID:    v.AwayTeamID,
		MatchDate:     v.MatchDate,
		MatchTime:     v.MatchTime,
		Score:         score,
		HomeTeamName:  v.HomeTeamName,
		AwayTeamName:  v.AwayTeamName,
		HomeTeamLogo:  v.HomeTeamLogo,
		AwayTeamLogo:  v.AwayTeamLogo,
	}
}
