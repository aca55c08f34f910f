package igdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

const gameFixture = `[{
	"id": 1942,
	"name": "Elden Ring",
	"summary": "A vast open world action RPG.",
	"rating": 91.5,
	"total_rating": 92.3,
	"total_rating_count": 540,
	"genres": [{"id": 12, "name": "Role-playing (RPG)"}, {"id": 31, "name": "Adventure"}],
	"themes": [{"id": 17, "name": "Fantasy"}],
	"keywords": [{"id": 1, "name": "soulslike"}, {"id": 2, "name": "open world"}],
	"game_modes": [{"id": 1, "name": "Single player"}, {"id": 2, "name": "Multiplayer"}],
	"involved_companies": [
		{"company": {"id": 100, "name": "FromSoftware"}, "developer": true},
		{"company": {"id": 101, "name": "Bandai Namco"}, "developer": false}
	],
	"cover": {"id": 5, "url": "//images.igdb.com/igdb/image/upload/t_thumb/co4jni.jpg"}
}]`

type testServer struct {
	server    *httptest.Server
	authCalls atomic.Int64
	lastBody  atomic.Value // string
}

// newTestClient wires a client against a server that answers the oauth
// handshake itself and delegates game queries to handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *testServer) {
	t.Helper()

	ts := &testServer{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			ts.authCalls.Add(1)
			w.Write([]byte(`{"access_token": "test-token", "expires_in": 3600}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		ts.lastBody.Store(string(body))
		handler(w, r)
	}))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		APIURL:       ts.server.URL,
		AuthURL:      ts.server.URL + "/oauth2/token",
	}, logger)

	t.Cleanup(func() {
		client.Close()
		ts.server.Close()
	})
	return client, ts
}

func TestClient_SearchByTitle(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gameFixture))
	})

	game, err := client.SearchByTitle(context.Background(), "elden ring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if game.IGDBID != 1942 {
		t.Errorf("expected igdb id 1942, got %d", game.IGDBID)
	}
	if game.Title != "Elden Ring" {
		t.Errorf("expected title 'Elden Ring', got %q", game.Title)
	}
	if game.NormalizedTitle != "elden ring" {
		t.Errorf("expected normalized title, got %q", game.NormalizedTitle)
	}

	// Only companies flagged as developer count.
	if len(game.Developers) != 1 || game.Developers[0] != "FromSoftware" {
		t.Errorf("expected developers [FromSoftware], got %v", game.Developers)
	}

	if game.TotalRating != 92.3 || game.TotalRatingCount != 540 {
		t.Errorf("unexpected global rating %v (%d)", game.TotalRating, game.TotalRatingCount)
	}

	// Cover should be upgraded from protocol-relative thumb to https cover.
	want := "https://images.igdb.com/igdb/image/upload/t_cover_big/co4jni.jpg"
	if game.CoverURL != want {
		t.Errorf("expected cover %q, got %q", want, game.CoverURL)
	}

	body, _ := ts.lastBody.Load().(string)
	if !strings.Contains(body, `search "elden ring";`) {
		t.Errorf("expected search clause in body, got %q", body)
	}
}

func TestClient_SearchByTitle_NoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.SearchByTitle(context.Background(), "definitely not a game")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GetByID(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gameFixture))
	})

	game, err := client.GetByID(context.Background(), 1942)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.IGDBID != 1942 {
		t.Errorf("expected igdb id 1942, got %d", game.IGDBID)
	}

	body, _ := ts.lastBody.Load().(string)
	if !strings.Contains(body, "where id = 1942;") {
		t.Errorf("expected id clause in body, got %q", body)
	}
}

func TestClient_SimilarIDs(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1942, "similar_games": [119133, 11133, 26192]}]`))
	})

	ids, err := client.SimilarIDs(context.Background(), 1942)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 119133 {
		t.Errorf("unexpected similar ids: %v", ids)
	}
}

func TestClient_GetCandidates_Filters(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 7, "name": "Hades", "rating": 93.1,
			"genres": [{"id": 12, "name": "Role-playing (RPG)"}],
			"cover": {"id": 9, "image_id": "co39vc"}}]`))
	})

	cands, err := client.GetCandidates(context.Background(), []int64{7, 8, 9}, "Role-playing (RPG)", "steam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 || cands[0].Title != "Hades" {
		t.Fatalf("unexpected candidates: %+v", cands)
	}
	if cands[0].CoverURL != "https://images.igdb.com/igdb/image/upload/t_cover_big/co39vc.jpg" {
		t.Errorf("expected cover built from image id, got %q", cands[0].CoverURL)
	}

	body, _ := ts.lastBody.Load().(string)
	for _, want := range []string{
		"id = (7,8,9)",
		`genres.name = "Role-playing (RPG)"`,
		"platforms = (6)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body, got %q", want, body)
		}
	}
}

func TestClient_TopRatedByGenre(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 7, "name": "Hades", "rating": 93.1}]`))
	})

	cands, err := client.TopRatedByGenre(context.Background(), "Shooter", "psn", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}

	body, _ := ts.lastBody.Load().(string)
	for _, want := range []string{
		`genres.name = "Shooter" & rating > 75 & rating_count > 10`,
		"platforms = (48, 167)",
		"sort rating desc",
		"limit 12;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body, got %q", want, body)
		}
	}
}

func TestClient_RetriesOnceAfterRateLimit(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(gameFixture))
	})

	game, err := client.GetByID(context.Background(), 1942)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if game.Title != "Elden Ring" {
		t.Errorf("unexpected game: %+v", game)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_TokenReused(t *testing.T) {
	client, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gameFixture))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.GetByID(context.Background(), 1942); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ts.authCalls.Load() != 1 {
		t.Errorf("expected a single auth handshake, got %d", ts.authCalls.Load())
	}
}

func TestClient_NoCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{}, logger)
	defer client.Close()

	_, err := client.GetByID(context.Background(), 1942)
	if err != ErrNoCredentials {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.GetByID(context.Background(), 1942)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
