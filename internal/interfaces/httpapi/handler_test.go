package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/kickoffhq/clubsite/internal/infrastructure/repository/memory"
	idgen "github.com/kickoffhq/clubsite/internal/platform/id"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
	"github.com/kickoffhq/clubsite/internal/usecase"
)

const testAdminToken = "test-admin-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	competitionRepo := memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedRounds())
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	friendlyRepo := memory.NewFriendlyRepository(memory.SeedFriendlyMatches())
	standingRepo := memory.NewStandingRepository()
	indexRepo := memory.NewMatchIndexRepository()

	logger := logging.NewNop()
	ids := idgen.NewRandomGenerator()
	clubService := usecase.NewClubService(clubRepo)
	teamService := usecase.NewTeamService(clubRepo, teamRepo, ids)
	competitionService := usecase.NewCompetitionService(clubRepo, competitionRepo, ids)
	standingsService := usecase.NewStandingsService(competitionRepo, teamRepo, matchRepo, standingRepo)
	matchIndexService := usecase.NewMatchIndexService(clubRepo, competitionRepo, teamRepo, matchRepo, friendlyRepo, indexRepo, nil, nil, logger)
	matchService := usecase.NewMatchService(competitionRepo, matchRepo, friendlyRepo, matchIndexService, standingsService, ids, logger)

	handler := NewHandler(clubService, teamService, competitionService, matchService, standingsService, matchIndexService, logger)
	return NewRouter(handler, logger, false, nil, testAdminToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_ListClubMatches_BackfillsOnFirstRead(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/aoba-fc/matches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	rows, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(rows) == 0 {
		t.Fatalf("expected index rows after first-read backfill")
	}

	first, _ := rows[0].(map[string]any)
	if first["key"] == "" {
		t.Fatalf("expected row key to be populated")
	}
}

func TestRouter_StandingsForCup_FailedPrecondition(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/aoba-fc/competitions/aoba-spring-cup-2025/standings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", got)
	}
}

func TestRouter_RecomputeStandings_RequiresAdminToken(t *testing.T) {
	router := newTestRouter(t)

	url := "/v1/admin/clubs/aoba-fc/competitions/aoba-city-league-2025/standings/recompute"

	req := httptest.NewRequest(http.MethodPost, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	rows, ok := body["data"].([]any)
	if !ok || len(rows) == 0 {
		t.Fatalf("expected recomputed standings rows, got %v", body["data"])
	}
	first, _ := rows[0].(map[string]any)
	if got, _ := first["rank"].(float64); got != 1 {
		t.Fatalf("expected top row rank 1, got %v", first["rank"])
	}
}

func TestRouter_CreateMatch_ValidationError(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"homeTeamId":"aoba-top","matchDate":"2025-05-01"}`
	url := "/v1/admin/clubs/aoba-fc/competitions/aoba-city-league-2025/rounds/round-1/matches"

	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing awayTeamId, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CreateAndPatchMatch_FullFlow(t *testing.T) {
	router := newTestRouter(t)

	createPayload := `{"homeTeamId":"aoba-top","awayTeamId":"aoba-b","matchDate":"2025-05-01","matchTime":"13:00"}`
	createURL := "/v1/admin/clubs/aoba-fc/competitions/aoba-city-league-2025/rounds/round-2/matches"

	req := httptest.NewRequest(http.MethodPost, createURL, strings.NewReader(createPayload))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	created, _ := body["data"].(map[string]any)
	matchID, _ := created["id"].(string)
	if matchID == "" {
		t.Fatalf("expected created match id")
	}
	if _, hasScore := created["score"]; hasScore {
		t.Fatalf("did not expect score on unplayed match")
	}

	patchPayload := `{"score":{"home":2,"away":0}}`
	patchURL := createURL + "/" + matchID

	req = httptest.NewRequest(http.MethodPatch, patchURL, strings.NewReader(patchPayload))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body = decodeEnvelope(t, rec)
	updated, _ := body["data"].(map[string]any)
	score, _ := updated["score"].(map[string]any)
	if got, _ := score["home"].(float64); got != 2 {
		t.Fatalf("expected score home 2, got %v", score["home"])
	}
}

func TestRouter_PatchMatch_ScoreAndClearScoreConflict(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"score":{"home":1,"away":1},"clearScore":true}`
	url := "/v1/admin/clubs/aoba-fc/competitions/aoba-city-league-2025/rounds/round-1/matches/m-league-001"

	req := httptest.NewRequest(http.MethodPatch, url, strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
