package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kickoffhq/clubsite/internal/domain/team"
)

type teamDTO struct {
	ID      string `json:"id"`
	ClubID  string `json:"clubId"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

type teamUpsertRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	LogoURL string `json:"logoUrl" validate:"max=2048"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	clubID := r.PathValue("clubID")
	teams, err := h.teamService.ListByClub(ctx, clubID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	clubID := r.PathValue("clubID")
	var req teamUpsertRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.teamService.Save(ctx, team.Team{
		ClubID:  clubID,
		Name:    strings.TrimSpace(req.Name),
		LogoURL: strings.TrimSpace(req.LogoURL),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "club_id", clubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(ctx, saved))
}

func (h *Handler) SaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveTeam")
	defer span.End()

	clubID := r.PathValue("clubID")
	teamID := r.PathValue("teamID")
	var req teamUpsertRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.teamService.Save(ctx, team.Team{
		ID:      teamID,
		ClubID:  clubID,
		Name:    strings.TrimSpace(req.Name),
		LogoURL: strings.TrimSpace(req.LogoURL),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save team failed", "club_id", clubID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(ctx, saved))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	clubID := r.PathValue("clubID")
	teamID := r.PathValue("teamID")
	if err := h.teamService.Delete(ctx, clubID, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "club_id", clubID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:      v.ID,
		ClubID:  v.ClubID,
		Name:    v.Name,
		LogoURL: v.LogoURL,
	}
}
