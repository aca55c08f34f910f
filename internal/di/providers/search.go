package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/questlogapp/questlog-server/internal/config"
	"github.com/questlogapp/questlog-server/internal/logger"
	"github.com/questlogapp/questlog-server/internal/search"
	"github.com/questlogapp/questlog-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchSync reconciles the search index with the library in the
// background. The library can change while the server is down, so the
// index is rebuilt on every startup rather than only when empty. Should
// be called after all services are wired.
func TriggerSearchSync(i do.Injector) {
	libraryService := do.MustInvoke[*service.LibraryService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx := context.Background()
	groups, err := storeHandle.ListLibrary(ctx)
	if err != nil {
		log.Error("Startup search sync skipped", "error", err)
		return
	}
	docCount, _ := indexHandle.DocumentCount()
	if len(groups) == 0 && docCount == 0 {
		return
	}

	log.Info("Reconciling search index with library", "entry_count", len(groups))

	go func() {
		syncCtx := context.Background()
		if err := libraryService.SyncSearchIndex(syncCtx); err != nil {
			log.Error("Startup search sync failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Startup search sync completed", "documents", count)
		}
	}()
}
