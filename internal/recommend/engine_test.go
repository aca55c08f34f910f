package recommend

import (
	"context"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/questlogapp/questlog-server/internal/catalog/igdb"
	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/errors"
	"github.com/questlogapp/questlog-server/internal/store"
)

// fakeCatalog serves canned catalog data and records call counts.
type fakeCatalog struct {
	games      map[int64]*domain.Game
	byTitle    map[string]*domain.Game
	similar    map[int64][]int64
	candidates map[int64]*igdb.Candidate
	topRated   []*igdb.Candidate

	getByIDCalls  int
	searchCalls   int
	topRatedGenre string
	topRatedLimit int
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, title string) (*domain.Game, error) {
	f.searchCalls++
	if g, ok := f.byTitle[title]; ok {
		return g, nil
	}
	return nil, igdb.ErrNotFound
}

func (f *fakeCatalog) GetByID(_ context.Context, igdbID int64) (*domain.Game, error) {
	f.getByIDCalls++
	if g, ok := f.games[igdbID]; ok {
		return g, nil
	}
	return nil, igdb.ErrNotFound
}

func (f *fakeCatalog) SimilarIDs(_ context.Context, igdbID int64) ([]int64, error) {
	return f.similar[igdbID], nil
}

func (f *fakeCatalog) GetCandidates(_ context.Context, igdbIDs []int64, _, _ string) ([]*igdb.Candidate, error) {
	var out []*igdb.Candidate
	for _, id := range igdbIDs {
		if c, ok := f.candidates[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) TopRatedByGenre(_ context.Context, genre, _ string, limit int) ([]*igdb.Candidate, error) {
	f.topRatedGenre = genre
	f.topRatedLimit = limit
	return f.topRated, nil
}

// fakePricer returns the same price map for every title.
type fakePricer struct {
	prices map[string]string
	calls  int
}

func (f *fakePricer) Prices(_ context.Context, _ string) map[string]string {
	f.calls++
	return f.prices
}

func newTestEngine(t *testing.T, catalog Catalog, pricer Pricer) (*Engine, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath, slog.Default())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	e, err := New(s, catalog, pricer, rand.New(rand.NewSource(1)), slog.Default())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return e, s
}

// seedPlayedGame inserts a golden game with one linked, optionally rated
// library entry.
func seedPlayedGame(t *testing.T, s *store.Store, g *domain.Game, entryID, platform string, playtime, rating int) {
	t.Helper()
	ctx := context.Background()

	if err := s.UpsertGame(ctx, g); err != nil {
		t.Fatalf("failed to upsert game: %v", err)
	}
	e := &domain.LibraryEntry{
		ID:              entryID,
		Platform:        platform,
		PlatformID:      entryID,
		OriginalTitle:   g.Title,
		PlaytimeMinutes: playtime,
	}
	if err := s.CreateLibraryEntry(ctx, e); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	if err := s.LinkEntryToGame(ctx, entryID, g.ID); err != nil {
		t.Fatalf("failed to link entry: %v", err)
	}
	if rating > 0 {
		if err := s.UpsertRating(ctx, g.ID, rating); err != nil {
			t.Fatalf("failed to rate game: %v", err)
		}
	}
}

func rpgGame(igdbID int64, title string) *domain.Game {
	return &domain.Game{
		IGDBID:      igdbID,
		Title:       title,
		Genres:      []string{"Role-playing (RPG)"},
		Themes:      []string{"Fantasy"},
		Keywords:    []string{"open world"},
		Developers:  []string{"FromSoftware"},
		GameModes:   []string{"Single player"},
		Summary:     "A sprawling action role-playing adventure across a ruined fantasy realm.",
		TotalRating: 92,
	}
}

func TestAnalyzeNeedDataOnEmptyLibrary(t *testing.T) {
	catalog := &fakeCatalog{
		games: map[int64]*domain.Game{77: rpgGame(77, "Bloodborne")},
	}
	e, _ := newTestEngine(t, catalog, nil)

	a, err := e.Analyze(context.Background(), "", 77)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if a.Score != 0 {
		t.Errorf("expected score 0, got %d", a.Score)
	}
	if a.Verdict != domain.VerdictNeedData {
		t.Errorf("expected Need Data verdict, got %q", a.Verdict)
	}
	if len(a.Reasons) != 1 || a.Reasons[0] != "Not enough play history" {
		t.Errorf("unexpected reasons: %v", a.Reasons)
	}
}

func TestAnalyzePrefersLocalRecord(t *testing.T) {
	catalog := &fakeCatalog{}
	e, s := newTestEngine(t, catalog, nil)

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)

	a, err := e.Analyze(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if catalog.getByIDCalls != 0 {
		t.Errorf("expected no catalog lookup for an owned game, got %d", catalog.getByIDCalls)
	}
	if a.Score <= 60 {
		t.Errorf("expected the user's favorite game to score above 60, got %d", a.Score)
	}
	if a.Verdict != domain.VerdictMustPlay && a.Verdict != domain.VerdictRecommended {
		t.Errorf("unexpected verdict %q for score %d", a.Verdict, a.Score)
	}
}

func TestAnalyzeFallsBackToCatalog(t *testing.T) {
	catalog := &fakeCatalog{
		byTitle: map[string]*domain.Game{"Bloodborne": rpgGame(77, "Bloodborne")},
	}
	e, s := newTestEngine(t, catalog, nil)

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)

	a, err := e.Analyze(context.Background(), "Bloodborne", 0)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if catalog.searchCalls != 1 {
		t.Errorf("expected one catalog search, got %d", catalog.searchCalls)
	}
	if a.Score <= 60 {
		t.Errorf("expected a near-identical game to score above 60, got %d", a.Score)
	}

	// The catalog result is cached as a golden record, so a second
	// analysis resolves locally.
	if _, err := e.Analyze(context.Background(), "Bloodborne", 0); err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	if catalog.searchCalls != 1 {
		t.Errorf("expected cached resolution on second analyze, got %d searches", catalog.searchCalls)
	}
}

func TestAnalyzeUnknownGame(t *testing.T) {
	e, _ := newTestEngine(t, &fakeCatalog{}, nil)

	_, err := e.Analyze(context.Background(), "Does Not Exist", 0)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBacklogRanksByProfileFit(t *testing.T) {
	e, s := newTestEngine(t, &fakeCatalog{}, nil)
	ctx := context.Background()

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)
	racer := &domain.Game{
		IGDBID:  20,
		Title:   "Speed Demon",
		Genres:  []string{"Racing"},
		Summary: "High octane street racing through neon cities.",
	}
	seedPlayedGame(t, s, racer, "lib-b", "steam", 200, 3)

	// Unplayed on two storefronts, strongly matching the profile.
	quest := rpgGame(30, "Chrono Quest")
	if err := s.UpsertGame(ctx, quest); err != nil {
		t.Fatalf("failed to upsert game: %v", err)
	}
	for _, seed := range []struct {
		id, platform string
		playtime     int
	}{
		{"lib-c1", "steam", 30},
		{"lib-c2", "psn", 50},
	} {
		entry := &domain.LibraryEntry{
			ID:              seed.id,
			Platform:        seed.platform,
			PlatformID:      seed.id,
			OriginalTitle:   quest.Title,
			PlaytimeMinutes: seed.playtime,
		}
		if err := s.CreateLibraryEntry(ctx, entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}
		if err := s.LinkEntryToGame(ctx, seed.id, quest.ID); err != nil {
			t.Fatalf("failed to link entry: %v", err)
		}
	}

	// Unplayed and matching a disliked genre.
	drift := &domain.Game{IGDBID: 40, Title: "Turbo Drift", Genres: []string{"Racing"}}
	seedPlayedGame(t, s, drift, "lib-d", "steam", 0, 0)

	items, err := e.Backlog(ctx, 10)
	if err != nil {
		t.Fatalf("backlog failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 backlog items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Chrono Quest" {
		t.Errorf("expected Chrono Quest first, got %q", first.Title)
	}
	if first.Score <= 0 {
		t.Errorf("expected positive score for matching game, got %v", first.Score)
	}
	if len(first.LibraryIDs) != 2 {
		t.Errorf("expected both entries grouped, got %v", first.LibraryIDs)
	}
	if len(first.Platforms) != 2 || first.Platforms[0] != "psn" || first.Platforms[1] != "steam" {
		t.Errorf("expected sorted platforms [psn steam], got %v", first.Platforms)
	}
	if first.PlaytimeMinutes != 50 {
		t.Errorf("expected max playtime 50, got %d", first.PlaytimeMinutes)
	}

	if items[1].Title != "Turbo Drift" {
		t.Errorf("expected Turbo Drift last, got %q", items[1].Title)
	}
	if items[1].Score >= 0 {
		t.Errorf("expected negative score for disliked genre, got %v", items[1].Score)
	}
}

func TestBacklogLimit(t *testing.T) {
	e, s := newTestEngine(t, &fakeCatalog{}, nil)
	ctx := context.Background()

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)
	seedPlayedGame(t, s, rpgGame(30, "Chrono Quest"), "lib-b", "steam", 0, 0)
	seedPlayedGame(t, s, &domain.Game{IGDBID: 40, Title: "Turbo Drift"}, "lib-c", "steam", 0, 0)

	items, err := e.Backlog(ctx, 1)
	if err != nil {
		t.Fatalf("backlog failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected backlog truncated to 1, got %d", len(items))
	}
}

func TestBacklogEmptyLibrary(t *testing.T) {
	e, _ := newTestEngine(t, &fakeCatalog{}, nil)

	items, err := e.Backlog(context.Background(), 10)
	if err != nil {
		t.Fatalf("backlog failed: %v", err)
	}
	if items != nil {
		t.Errorf("expected nil backlog without a profile, got %v", items)
	}
}

func TestDiscoverMinesSimilarGames(t *testing.T) {
	catalog := &fakeCatalog{
		similar: map[int64][]int64{
			10: {900, 901, 20, 902},
			20: {900, 902},
		},
		candidates: map[int64]*igdb.Candidate{
			900: {IGDBID: 900, Title: "Nightreign", Genres: []string{"Role-playing (RPG)"}, Rating: 88},
			901: {IGDBID: 901, Title: "ELDEN RING"}, // already owned under a different casing
		},
	}
	pricer := &fakePricer{prices: map[string]string{"Steam": "9.99"}}
	e, s := newTestEngine(t, catalog, pricer)
	ctx := context.Background()

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)
	racer := &domain.Game{
		IGDBID:  20,
		Title:   "Speed Demon",
		Genres:  []string{"Racing"},
		Summary: "High octane street racing.",
	}
	seedPlayedGame(t, s, racer, "lib-b", "steam", 200, 3)

	if err := s.AddIgnored(ctx, 902, domain.ReasonNotInterested); err != nil {
		t.Fatalf("failed to ignore game: %v", err)
	}

	results, err := e.Discover(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}

	got := results[0]
	if got.IGDBID != 900 {
		t.Errorf("expected candidate 900, got %d", got.IGDBID)
	}
	for _, src := range []string{"Elden Ring", "Speed Demon"} {
		if !strings.Contains(got.BasedOn, src) {
			t.Errorf("expected based_on to mention %q, got %q", src, got.BasedOn)
		}
	}
	if got.Prices["Steam"] != "9.99" {
		t.Errorf("expected steam price attached, got %v", got.Prices)
	}
}

func TestDiscoverFallsBackToTopRated(t *testing.T) {
	catalog := &fakeCatalog{
		topRated: []*igdb.Candidate{
			{IGDBID: 300, Title: "Hades II", Genres: []string{"Role-playing (RPG)"}, Rating: 93},
			{IGDBID: 301, Title: "Elden Ring"}, // owned, must be skipped
		},
	}
	e, s := newTestEngine(t, catalog, nil)
	ctx := context.Background()

	seedPlayedGame(t, s, rpgGame(10, "Elden Ring"), "lib-a", "steam", 3000, 9)

	results, err := e.Discover(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one fallback result, got %d", len(results))
	}
	if results[0].IGDBID != 300 {
		t.Errorf("expected Hades II, got %d", results[0].IGDBID)
	}
	if results[0].BasedOn != "Top Rated in Role-Playing (Rpg)" {
		t.Errorf("unexpected based_on %q", results[0].BasedOn)
	}
	if catalog.topRatedGenre != "Role-Playing (Rpg)" {
		t.Errorf("expected fallback keyed to top profile genre, got %q", catalog.topRatedGenre)
	}
	if catalog.topRatedLimit != 30 {
		t.Errorf("expected limit of three candidates per missing slot, got %d", catalog.topRatedLimit)
	}
}

func TestDiscoverEmptyLibrary(t *testing.T) {
	e, _ := newTestEngine(t, &fakeCatalog{}, nil)

	results, err := e.Discover(context.Background(), "", "", 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results without a profile, got %v", results)
	}
}
