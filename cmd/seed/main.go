// Package main provides a tool to seed the database with test library data.
//
// This creates a handful of games with playtime and ratings so profile,
// backlog, and analysis features have something to chew on during development.
//
// Usage:
//
//	DB_PATH=~/QuestLog/data/questlog.db go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/id"
	"github.com/questlogapp/questlog-server/internal/store"
)

type seedGame struct {
	game     domain.Game
	platform string
	playtime int
	rating   int
	status   domain.PlayStatus
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/QuestLog/data/questlog.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	seeds := []seedGame{
		{
			game: domain.Game{
				IGDBID:           119133,
				Title:            "Elden Ring",
				Genres:           []string{"Role-playing (RPG)", "Adventure"},
				Themes:           []string{"Fantasy", "Open world"},
				Keywords:         []string{"soulslike", "open world", "dark fantasy"},
				Developers:       []string{"FromSoftware"},
				GameModes:        []string{"Single player", "Multiplayer"},
				Summary:          "Rise, Tarnished, and journey through the Lands Between.",
				TotalRating:      95,
				TotalRatingCount: 1200,
			},
			platform: "steam", playtime: 7200, rating: 10, status: domain.StatusCompleted,
		},
		{
			game: domain.Game{
				IGDBID:           113112,
				Title:            "Hades",
				Genres:           []string{"Role-playing (RPG)", "Indie"},
				Themes:           []string{"Action", "Fantasy"},
				Keywords:         []string{"roguelike", "greek mythology", "isometric"},
				Developers:       []string{"Supergiant Games"},
				GameModes:        []string{"Single player"},
				Summary:          "Defy the god of the dead in this rogue-like dungeon crawler.",
				TotalRating:      93,
				TotalRatingCount: 900,
			},
			platform: "steam", playtime: 3600, rating: 9, status: domain.StatusCompleted,
		},
		{
			game: domain.Game{
				IGDBID:           26192,
				Title:            "The Witcher 3: Wild Hunt",
				Genres:           []string{"Role-playing (RPG)", "Adventure"},
				Themes:           []string{"Fantasy", "Open world"},
				Keywords:         []string{"open world", "monster hunting", "dark fantasy"},
				Developers:       []string{"CD Projekt RED"},
				GameModes:        []string{"Single player"},
				Summary:          "As war rages on, you are sent to find the Child of Prophecy.",
				TotalRating:      94,
				TotalRatingCount: 1500,
			},
			platform: "gog", playtime: 5400, rating: 9, status: domain.StatusPlaying,
		},
		{
			game: domain.Game{
				IGDBID:           121,
				Title:            "Need for Speed: Payback",
				Genres:           []string{"Racing", "Sport"},
				Themes:           []string{"Action"},
				Keywords:         []string{"street racing", "cars"},
				Developers:       []string{"Ghost Games"},
				GameModes:        []string{"Single player", "Multiplayer"},
				Summary:          "Set in the underworld of Fortune Valley.",
				TotalRating:      62,
				TotalRatingCount: 300,
			},
			platform: "psn", playtime: 90, rating: 3, status: domain.StatusDropped,
		},
		{
			game: domain.Game{
				IGDBID:           1877,
				Title:            "Cyberpunk 2077",
				Genres:           []string{"Role-playing (RPG)", "Shooter"},
				Themes:           []string{"Science fiction", "Open world"},
				Keywords:         []string{"open world", "cyberpunk", "first person"},
				Developers:       []string{"CD Projekt RED"},
				GameModes:        []string{"Single player"},
				Summary:          "An open-world action-adventure set in Night City.",
				TotalRating:      86,
				TotalRatingCount: 800,
			},
			platform: "steam", playtime: 0, rating: 0, status: domain.StatusUnplayed,
		},
	}

	created := 0
	for _, seed := range seeds {
		g := seed.game
		if err := s.UpsertGame(ctx, &g); err != nil {
			log.Fatalf("Failed to upsert game %q: %v", g.Title, err)
		}

		// Re-running the seeder should not duplicate entries.
		if entries, err := s.ListLibraryEntries(ctx); err == nil {
			duplicate := false
			for _, e := range entries {
				if e.GameID == g.ID {
					duplicate = true
				}
			}
			if duplicate {
				fmt.Printf("  Skipping %q, already in library\n", g.Title)
				continue
			}
		}

		entry := &domain.LibraryEntry{
			ID:              id.MustGenerate("lib"),
			Platform:        seed.platform,
			PlatformID:      fmt.Sprintf("%d", 100000+rng.Intn(900000)),
			OriginalTitle:   g.Title,
			PlaytimeMinutes: seed.playtime,
			Status:          seed.status,
		}

		if err := s.CreateLibraryEntry(ctx, entry); err != nil {
			log.Fatalf("Failed to create library entry for %q: %v", g.Title, err)
		}
		if err := s.LinkEntryToGame(ctx, entry.ID, g.ID); err != nil {
			log.Fatalf("Failed to link entry for %q: %v", g.Title, err)
		}
		if seed.rating > 0 {
			if err := s.UpsertRating(ctx, g.ID, seed.rating); err != nil {
				log.Fatalf("Failed to rate %q: %v", g.Title, err)
			}
		}

		created++
		fmt.Printf("  Seeded %q on %s (%d min, rating %d)\n", g.Title, seed.platform, seed.playtime, seed.rating)
	}

	fmt.Printf("\nDone. Seeded %d library entries.\n", created)
}
