package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/competition"
)

type competitionDTO struct {
	ID         string         `json:"id"`
	ClubID     string         `json:"clubId"`
	Name       string         `json:"name"`
	Season     string         `json:"season,omitempty"`
	Format     string         `json:"format"`
	TeamIDs    []string       `json:"teamIds"`
	RankLabels []rankLabelDTO `json:"rankLabels,omitempty"`
}

type rankLabelDTO struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Color string `json:"color"`
}

type roundDTO struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competitionId"`
	Name          string `json:"name"`
}

type competitionUpsertRequest struct {
	Name       string         `json:"name" validate:"required,max=200"`
	Season     string         `json:"season" validate:"max=50"`
	Format     string         `json:"format" validate:"omitempty,oneof=league cup league_cup"`
	TeamIDs    []string       `json:"teamIds" validate:"dive,required"`
	RankLabels []rankLabelDTO `json:"rankLabels" validate:"dive"`
}

type roundUpsertRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitions, err := h.competitionService.ListByClub(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]competitionDTO, 0, len(competitions))
	for _, c := range competitions {
		items = append(items, competitionToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	item, err := h.competitionService.Get(ctx, clubID, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(ctx, item))
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCompetition")
	defer span.End()

	h.saveCompetition(ctx, w, r, "")
}

func (h *Handler) SaveCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveCompetition")
	defer span.End()

	h.saveCompetition(ctx, w, r, r.PathValue("competitionID"))
}

func (h *Handler) saveCompetition(ctx context.Context, w http.ResponseWriter, r *http.Request, competitionID string) {
	clubID := r.PathValue("clubID")
	var req competitionUpsertRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	labels := make([]competition.RankLabel, 0, len(req.RankLabels))
	for _, l := range req.RankLabels {
		labels = append(labels, competition.RankLabel{From: l.From, To: l.To, Color: l.Color})
	}

	saved, err := h.competitionService.Save(ctx, competition.Competition{
		ID:         competitionID,
		ClubID:     clubID,
		Name:       strings.TrimSpace(req.Name),
		Season:     strings.TrimSpace(req.Season),
		Format:     competition.NormalizeFormat(req.Format),
		TeamIDs:    req.TeamIDs,
		RankLabels: labels,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save competition failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if competitionID == "" {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, competitionToDTO(ctx, saved))
}

func (h *Handler) DeleteCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteCompetition")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	if err := h.competitionService.Delete(ctx, clubID, competitionID); err != nil {
		h.logger.WarnContext(ctx, "delete competition failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	rounds, err := h.competitionService.ListRounds(ctx, clubID, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "club_id", clubID, "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roundDTO, 0, len(rounds))
	for _, round := range rounds {
		items = append(items, roundToDTO(ctx, round))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	h.saveRound(ctx, w, r, "")
}

func (h *Handler) SaveRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveRound")
	defer span.End()

	h.saveRound(ctx, w, r, r.PathValue("roundID"))
}

func (h *Handler) saveRound(ctx context.Context, w http.ResponseWriter, r *http.Request, roundID string) {
	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	var req roundUpsertRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.competitionService.SaveRound(ctx, clubID, competition.Round{
		ID:            roundID,
		CompetitionID: competitionID,
		Name:          strings.TrimSpace(req.Name),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save round failed", "club_id", clubID, "competition_id", competitionID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if roundID == "" {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, roundToDTO(ctx, saved))
}

func (h *Handler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRound")
	defer span.End()

	clubID := r.PathValue("clubID")
	competitionID := r.PathValue("competitionID")
	roundID := r.PathValue("roundID")
	if err := h.competitionService.DeleteRound(ctx, clubID, competitionID, roundID); err != nil {
		h.logger.WarnContext(ctx, "delete round failed", "club_id", clubID, "competition_id", competitionID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func competitionToDTO(ctx context.Context, v competition.Competition) competitionDTO {
	ctx, span := startSpan(ctx, "httpapi.competitionToDTO")
	defer span.End()

	labels := make([]rankLabelDTO, 0, len(v.RankLabels))
	for _, l := range v.RankLabels {
		labels = append(labels, rankLabelDTO{From: l.From, To: l.To, Color: l.Color})
	}

	teamIDs := v.TeamIDs
	if teamIDs == nil {
		teamIDs = []string{}
	}

	return competitionDTO{
		ID:         v.ID,
		ClubID:     v.ClubID,
		Name:       v.Name,
		Season:     v.Season,
		Format:     competition.NormalizeFormat(v.Format),
		TeamIDs:    teamIDs,
		RankLabels: labels,
	}
}

func roundToDTO(ctx context.Context, v competition.Round) roundDTO {
	ctx, span := startSpan(ctx, "httpapi.roundToDTO")
	defer span.End()

	return roundDTO{
		ID:            v.ID,
		CompetitionID: v.CompetitionID,
		Name:          v.Name,
	}
}
