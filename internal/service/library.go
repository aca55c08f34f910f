// Package service provides the business logic layer between the HTTP API
// and the store, catalog and recommendation engine.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/errors"
	"github.com/questlogapp/questlog-server/internal/search"
	"github.com/questlogapp/questlog-server/internal/store"
)

// LibraryService orchestrates library management: grouped listings, play
// status edits, ratings, ignores and the search index.
type LibraryService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(st *store.Store, index *search.Index, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:  st,
		index:  index,
		logger: logger,
	}
}

// ListOptions narrows and orders the grouped library listing.
type ListOptions struct {
	Platform string // keep only groups owned on this storefront
	SortBy   string // playtime (default), title, rating, last_played
}

// List returns the library grouped by golden game, most played first
// unless another sort is requested.
func (s *LibraryService) List(ctx context.Context, opts ListOptions) ([]*domain.LibraryGroup, error) {
	groups, err := s.store.ListLibrary(ctx)
	if err != nil {
		return nil, err
	}

	if opts.Platform != "" {
		filtered := groups[:0]
		for _, g := range groups {
			if slices.Contains(g.Platforms, opts.Platform) {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	switch opts.SortBy {
	case "", "playtime":
		// store order, most played first
	case "title":
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].Title) < strings.ToLower(groups[j].Title)
		})
	case "rating":
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Rating > groups[j].Rating
		})
	case "last_played":
		sort.SliceStable(groups, func(i, j int) bool {
			li, lj := groups[i].LastPlayed, groups[j].LastPlayed
			switch {
			case li == nil:
				return false
			case lj == nil:
				return true
			default:
				return li.After(*lj)
			}
		})
	default:
		return nil, errors.Validationf("invalid sort %q", opts.SortBy)
	}

	return groups, nil
}

// Unrated returns matched, meaningfully played games with no rating yet.
func (s *LibraryService) Unrated(ctx context.Context) ([]*domain.LibraryGroup, error) {
	return s.store.UnratedGames(ctx)
}

// SetPlayStatus updates the manual play status of one library entry.
func (s *LibraryService) SetPlayStatus(ctx context.Context, entryID string, status domain.PlayStatus) error {
	if !status.Valid() {
		return errors.Validationf("invalid play status %q", status)
	}
	if err := s.store.UpdatePlayStatus(ctx, entryID, status); err != nil {
		return fmt.Errorf("update play status: %w", err)
	}

	s.logger.Info("play status updated", "entry_id", entryID, "status", status)
	return nil
}

// DeleteEntry removes a library entry and blacklists its platform identity
// so a future storefront sync does not resurrect it.
func (s *LibraryService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.store.GetLibraryEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get library entry: %w", err)
	}

	if entry.PlatformID != "" {
		if err := s.store.AddBlacklist(ctx, entry.Platform, entry.PlatformID, entry.OriginalTitle); err != nil {
			return fmt.Errorf("blacklist entry: %w", err)
		}
	}
	if err := s.store.DeleteLibraryEntry(ctx, entryID); err != nil {
		return fmt.Errorf("delete library entry: %w", err)
	}
	s.refreshGameDocument(ctx, entry.GameID)

	s.logger.Info("library entry deleted",
		"entry_id", entryID,
		"platform", entry.Platform,
		"title", entry.OriginalTitle,
	)
	return nil
}

// Rate stores a personal 1-10 rating for an owned game, replacing any
// previous one.
func (s *LibraryService) Rate(ctx context.Context, igdbID int64, rating int) error {
	if rating < 1 || rating > 10 {
		return errors.Validation("rating must be between 1 and 10")
	}

	game, err := s.store.GetGameByIGDBID(ctx, igdbID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	if err := s.store.UpsertRating(ctx, game.ID, rating); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	s.refreshGameDocument(ctx, game.ID)

	s.logger.Info("game rated", "igdb_id", igdbID, "title", game.Title, "rating", rating)
	return nil
}

// Unrate removes a personal rating.
func (s *LibraryService) Unrate(ctx context.Context, igdbID int64) error {
	game, err := s.store.GetGameByIGDBID(ctx, igdbID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	if err := s.store.DeleteRating(ctx, game.ID); err != nil {
		return err
	}
	s.refreshGameDocument(ctx, game.ID)
	return nil
}

// Ignore dismisses a discovered game. Only "not_interested" dismissals
// feed the profile's negative keywords; "already_owned" just hides it.
func (s *LibraryService) Ignore(ctx context.Context, igdbID int64, reason domain.IgnoreReason) error {
	if reason == "" {
		reason = domain.ReasonNotInterested
	}
	if !reason.Valid() {
		return errors.Validationf("invalid ignore reason %q", reason)
	}
	if err := s.store.AddIgnored(ctx, igdbID, reason); err != nil {
		return fmt.Errorf("add ignored: %w", err)
	}

	s.logger.Info("recommendation ignored", "igdb_id", igdbID, "reason", reason)
	return nil
}

// Unignore restores a previously dismissed game to discovery.
func (s *LibraryService) Unignore(ctx context.Context, igdbID int64) error {
	return s.store.RemoveIgnored(ctx, igdbID)
}

// Search runs a full-text query against the library index.
func (s *LibraryService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// refreshGameDocument brings one game's search document back in line with
// the library after a mutation. The game may have left the library
// entirely, in which case its document is dropped. Index maintenance is
// best effort: the store is the source of truth and a failed index write
// never fails the mutation that triggered it.
func (s *LibraryService) refreshGameDocument(ctx context.Context, gameID int64) {
	if gameID == 0 {
		return // unmatched entries are never indexed
	}

	groups, err := s.store.ListLibrary(ctx)
	if err != nil {
		s.logger.Warn("search refresh skipped", "game_id", gameID, "error", err)
		return
	}

	for _, group := range groups {
		if group.GameID != gameID {
			continue
		}
		game, err := s.store.GetGame(ctx, gameID)
		if err != nil {
			s.logger.Warn("search refresh skipped", "game_id", gameID, "error", err)
			return
		}
		doc := search.GameToDocument(game, group.Platforms, group.PlaytimeMinutes, group.Rating)
		if err := s.index.IndexDocument(doc); err != nil {
			s.logger.Warn("failed to reindex game", "game_id", gameID, "error", err)
		}
		return
	}

	// No remaining library entries reference the game.
	if err := s.index.DeleteDocument(search.DocumentID(gameID)); err != nil {
		s.logger.Warn("failed to remove game from search index", "game_id", gameID, "error", err)
	}
}

// SyncSearchIndex rebuilds the index from scratch so it exactly mirrors
// the matched library, dropping documents for games that no longer have
// entries. Mutations keep the index current in between; this runs on
// startup to reconcile any drift.
func (s *LibraryService) SyncSearchIndex(ctx context.Context) error {
	groups, err := s.store.ListLibrary(ctx)
	if err != nil {
		return fmt.Errorf("list library: %w", err)
	}

	docs := make([]*search.Document, 0, len(groups))
	for _, group := range groups {
		if group.GameID == 0 {
			continue // unmatched entries have no golden record to index
		}
		game, err := s.store.GetGame(ctx, group.GameID)
		if err != nil {
			s.logger.Warn("skipping unindexable game", "game_id", group.GameID, "error", err)
			continue
		}
		docs = append(docs, search.GameToDocument(game, group.Platforms, group.PlaytimeMinutes, group.Rating))
	}

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index synced", "documents", len(docs))
	return nil
}
