package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
	"github.com/kickoffhq/clubsite/internal/usecase"
)

type Handler struct {
	clubService        *usecase.ClubService
	teamService        *usecase.TeamService
	competitionService *usecase.CompetitionService
	matchService       *usecase.MatchService
	standingsService   *usecase.StandingsService
	matchIndexService  *usecase.MatchIndexService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	clubService *usecase.ClubService,
	teamService *usecase.TeamService,
	competitionService *usecase.CompetitionService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	matchIndexService *usecase.MatchIndexService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		clubService:        clubService,
		teamService:        teamService,
		competitionService: competitionService,
		matchService:       matchService,
		standingsService:   standingsService,
		matchIndexService:  matchIndexService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(body io.Reader, out any) error {
	decoder := jsoniter.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
