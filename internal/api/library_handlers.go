package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Description: "Returns owned games grouped by golden record, most played first. Entries on multiple storefronts appear once with summed playtime and unioned platforms.",
		Tags:        []string{"Library"},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUnratedGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/unrated",
		Summary:     "List unrated games",
		Description: "Returns matched games with over an hour of playtime and no personal rating yet",
		Tags:        []string{"Library"},
	}, s.handleListUnrated)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLibraryEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{id}",
		Summary:     "Update play status",
		Tags:        []string{"Library"},
	}, s.handleUpdateLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteLibraryEntry",
		Method:        http.MethodDelete,
		Path:          "/api/v1/library/{id}",
		Summary:       "Delete library entry",
		Description:   "Removes the entry and blacklists its platform identity so a future sync will not re-add it",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteLibraryEntry)
}

// === DTOs ===

// ListLibraryInput holds library listing filters.
type ListLibraryInput struct {
	Platform string `query:"platform" enum:",steam,psn,xbox,gog,epic" doc:"Keep only games owned on this storefront"`
	SortBy   string `query:"sort" enum:",playtime,title,rating,last_played" doc:"Sort order (default playtime)"`
}

// LibraryOutput wraps the grouped library listing for huma.
type LibraryOutput struct {
	Body struct {
		Games []*domain.LibraryGroup `json:"games" doc:"Grouped library entries"`
		Total int                    `json:"total" doc:"Number of groups"`
	}
}

// UpdateLibraryEntryInput updates a single library entry.
type UpdateLibraryEntryInput struct {
	ID   string `path:"id" doc:"Library entry ID"`
	Body struct {
		Status string `json:"manual_play_status" enum:"unplayed,playing,completed,dropped" doc:"New play status"`
	}
}

// LibraryEntryOutput wraps one updated entry for huma.
type LibraryEntryOutput struct {
	Body domain.LibraryEntry
}

// DeleteLibraryEntryInput identifies the entry to delete.
type DeleteLibraryEntryInput struct {
	ID string `path:"id" doc:"Library entry ID"`
}

// === Handlers ===

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*LibraryOutput, error) {
	groups, err := s.services.Library.List(ctx, service.ListOptions{
		Platform: input.Platform,
		SortBy:   input.SortBy,
	})
	if err != nil {
		s.logger.Error("failed to list library", "error", err)
		return nil, err
	}

	out := &LibraryOutput{}
	out.Body.Games = groups
	out.Body.Total = len(groups)
	return out, nil
}

func (s *Server) handleListUnrated(ctx context.Context, _ *struct{}) (*LibraryOutput, error) {
	groups, err := s.services.Library.Unrated(ctx)
	if err != nil {
		s.logger.Error("failed to list unrated games", "error", err)
		return nil, err
	}

	out := &LibraryOutput{}
	out.Body.Games = groups
	out.Body.Total = len(groups)
	return out, nil
}

func (s *Server) handleUpdateLibraryEntry(ctx context.Context, input *UpdateLibraryEntryInput) (*LibraryEntryOutput, error) {
	err := s.services.Library.SetPlayStatus(ctx, input.ID, domain.PlayStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}

	entry, err := s.store.GetLibraryEntry(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}

func (s *Server) handleDeleteLibraryEntry(ctx context.Context, input *DeleteLibraryEntryInput) (*struct{}, error) {
	if err := s.services.Library.DeleteEntry(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
