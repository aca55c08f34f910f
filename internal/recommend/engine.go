// Package recommend is the scoring heart of the server: compatibility
// analysis of arbitrary games, backlog prioritization, and discovery of
// new titles mined from catalog similarity graphs.
package recommend

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/questlogapp/questlog-server/internal/affinity"
	"github.com/questlogapp/questlog-server/internal/catalog/igdb"
	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/errors"
	"github.com/questlogapp/questlog-server/internal/profile"
	"github.com/questlogapp/questlog-server/internal/store"
)

// Catalog is the slice of the game catalog the engine needs. Satisfied by
// *igdb.Client.
type Catalog interface {
	SearchByTitle(ctx context.Context, title string) (*domain.Game, error)
	GetByID(ctx context.Context, igdbID int64) (*domain.Game, error)
	SimilarIDs(ctx context.Context, igdbID int64) ([]int64, error)
	GetCandidates(ctx context.Context, igdbIDs []int64, genre, platform string) ([]*igdb.Candidate, error)
	TopRatedByGenre(ctx context.Context, genre, platform string, limit int) ([]*igdb.Candidate, error)
}

// Pricer looks up deal prices. Satisfied by *pricing.Client. Nil results
// mean no price information, never an error.
type Pricer interface {
	Prices(ctx context.Context, title string) map[string]string
}

// Engine computes recommendations against the current library snapshot.
// Profiles are rebuilt per call so edits to ratings or the library take
// effect immediately.
type Engine struct {
	store    *store.Store
	catalog  Catalog
	pricer   Pricer
	affinity *affinity.Model
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an engine. rng drives discovery source shuffling; tests pass
// a seeded source for deterministic runs.
func New(st *store.Store, catalog Catalog, pricer Pricer, rng *rand.Rand, logger *slog.Logger) (*Engine, error) {
	model, err := affinity.New()
	if err != nil {
		return nil, err
	}
	return &Engine{
		store:    st,
		catalog:  catalog,
		pricer:   pricer,
		affinity: model,
		logger:   logger,
		rng:      rng,
	}, nil
}

// BuildProfile assembles the current taste profile. Returns nil without
// error when the library holds no matched entries yet.
func (e *Engine) BuildProfile(ctx context.Context) (*domain.Profile, error) {
	rows, err := e.store.ProfileRows(ctx)
	if err != nil {
		return nil, err
	}
	ignored, err := e.store.NotInterestedKeywordLists(ctx)
	if err != nil {
		return nil, err
	}
	return profile.Build(rows, ignored), nil
}

// Analyze resolves a game by catalog id or title and scores it against the
// profile. Local golden records are preferred over catalog lookups.
func (e *Engine) Analyze(ctx context.Context, title string, igdbID int64) (*domain.Analysis, error) {
	game, err := e.resolveGame(ctx, title, igdbID)
	if err != nil {
		return nil, err
	}

	p, err := e.BuildProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &domain.Analysis{
			Game:    game,
			Score:   0,
			Verdict: domain.VerdictNeedData,
			Reasons: []string{"Not enough play history"},
		}, nil
	}

	score, reasons := scoreGame(p, game)
	return &domain.Analysis{
		Game:    game,
		Score:   int(score),
		Verdict: domain.VerdictFor(score),
		Reasons: reasons,
	}, nil
}

func (e *Engine) resolveGame(ctx context.Context, title string, igdbID int64) (*domain.Game, error) {
	if igdbID != 0 {
		game, err := e.store.GetGameByIGDBID(ctx, igdbID)
		if err == nil {
			return game, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		game, err = e.catalog.GetByID(ctx, igdbID)
		if errors.Is(err, igdb.ErrNotFound) {
			return nil, errors.NotFound("game not found").WithCause(err)
		}
		if err != nil {
			return nil, err
		}
		e.saveGoldenRecord(ctx, game)
		return game, nil
	}

	game, err := e.store.GetGameByTitle(ctx, title)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	game, err = e.catalog.SearchByTitle(ctx, title)
	if errors.Is(err, igdb.ErrNotFound) {
		return nil, errors.NotFound("game not found").WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	e.saveGoldenRecord(ctx, game)
	return game, nil
}

// saveGoldenRecord caches a catalog result locally so the next analysis of
// the same game skips the network. Failures only cost the cache.
func (e *Engine) saveGoldenRecord(ctx context.Context, game *domain.Game) {
	if game == nil {
		return
	}
	if err := e.store.UpsertGame(ctx, game); err != nil {
		e.logger.Warn("failed to cache catalog game", "title", game.Title, "error", err)
	}
}

// shuffle mixes discovery sources with the engine's rng. The rng is not
// safe for concurrent use, so all access goes through the mutex.
func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng.Shuffle(n, swap)
}
