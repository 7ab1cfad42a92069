package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kickoffhq/clubsite/internal/config"
	"github.com/kickoffhq/clubsite/internal/domain/club"
	"github.com/kickoffhq/clubsite/internal/domain/competition"
	"github.com/kickoffhq/clubsite/internal/domain/match"
	"github.com/kickoffhq/clubsite/internal/domain/matchindex"
	"github.com/kickoffhq/clubsite/internal/domain/standing"
	"github.com/kickoffhq/clubsite/internal/domain/team"
	cacherepo "github.com/kickoffhq/clubsite/internal/infrastructure/repository/cache"
	"github.com/kickoffhq/clubsite/internal/infrastructure/repository/memory"
	"github.com/kickoffhq/clubsite/internal/infrastructure/repository/postgres"
	"github.com/kickoffhq/clubsite/internal/infrastructure/sitecache"
	"github.com/kickoffhq/clubsite/internal/interfaces/httpapi"
	"github.com/kickoffhq/clubsite/internal/platform/cache"
	idgen "github.com/kickoffhq/clubsite/internal/platform/id"
	"github.com/kickoffhq/clubsite/internal/platform/logging"
	"github.com/kickoffhq/clubsite/internal/platform/resilience"
	"github.com/kickoffhq/clubsite/internal/usecase"
)

type repositories struct {
	clubs       club.Repository
	teams       team.Repository
	competition competition.Repository
	matches     match.Repository
	friendlies  match.FriendlyRepository
	standings   standing.Repository
	index       matchindex.Repository
}

// closer releases resources the server holds; nil when storage needs none.
type closer func() error

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, closer, error) {
	repos, dbClose, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var listCache *cache.Store
	if cfg.CacheEnabled {
		listCache = cache.NewStore(cfg.CacheTTL)
		repos.clubs = cacherepo.NewClubRepository(repos.clubs, listCache)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, listCache)
		repos.competition = cacherepo.NewCompetitionRepository(repos.competition, listCache)
	}

	var purger usecase.SitePurger
	if cfg.SiteCacheEnabled {
		purger = sitecache.NewPurger(sitecache.PurgerConfig{
			BaseURL: cfg.SiteCacheBaseURL,
			Token:   cfg.SiteCacheToken,
			Retries: cfg.SiteCacheRetries,
			Timeout: cfg.SiteCacheTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SiteCacheCircuitEnabled,
				FailureThreshold: cfg.SiteCacheCircuitFailureCount,
				OpenTimeout:      cfg.SiteCacheCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SiteCacheCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	ids := idgen.NewRandomGenerator()
	clubSvc := usecase.NewClubService(repos.clubs)
	teamSvc := usecase.NewTeamService(repos.clubs, repos.teams, ids)
	competitionSvc := usecase.NewCompetitionService(repos.clubs, repos.competition, ids)
	standingsSvc := usecase.NewStandingsService(repos.competition, repos.teams, repos.matches, repos.standings)
	indexSvc := usecase.NewMatchIndexService(
		repos.clubs,
		repos.competition,
		repos.teams,
		repos.matches,
		repos.friendlies,
		repos.index,
		listCache,
		purger,
		logger,
	)
	indexSvc.SetBackfillWorkers(cfg.IndexBackfillWorkers)
	matchSvc := usecase.NewMatchService(repos.competition, repos.matches, repos.friendlies, indexSvc, standingsSvc, ids, logger)

	handler := httpapi.NewHandler(clubSvc, teamSvc, competitionSvc, matchSvc, standingsSvc, indexSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.AdminAPIToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, dbClose, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, closer, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Info("storage driver: memory (seeded demo data)")
		return repositories{
			clubs:       memory.NewClubRepository(memory.SeedClubs()),
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			competition: memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedRounds()),
			matches:     memory.NewMatchRepository(memory.SeedMatches()),
			friendlies:  memory.NewFriendlyRepository(memory.SeedFriendlyMatches()),
			standings:   memory.NewStandingRepository(),
			index:       memory.NewMatchIndexRepository(),
		}, nil, nil
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		logger.Info("storage driver: postgres", "db", dbNameFromURL(cfg.DBURL))
		return repositories{
			clubs:       postgres.NewClubRepository(db),
			teams:       postgres.NewTeamRepository(db),
			competition: postgres.NewCompetitionRepository(db),
			matches:     postgres.NewMatchRepository(db),
			friendlies:  postgres.NewFriendlyRepository(db),
			standings:   postgres.NewStandingRepository(db),
			index:       postgres.NewMatchIndexRepository(db),
		}, db.Close, nil
	default:
		return repositories{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
