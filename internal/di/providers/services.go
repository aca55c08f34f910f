package providers

import (
	"math/rand"
	"time"

	"github.com/samber/do/v2"

	"github.com/questlogapp/questlog-server/internal/logger"
	"github.com/questlogapp/questlog-server/internal/recommend"
	"github.com/questlogapp/questlog-server/internal/service"
)

// ProvideEngine provides the recommendation engine.
func ProvideEngine(i do.Injector) (*recommend.Engine, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	igdbHandle := do.MustInvoke[*IGDBClientHandle](i)
	pricingHandle := do.MustInvoke[*PricingClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A typed nil *pricing.Client must not end up inside the interface,
	// the engine checks Pricer against nil.
	var pricer recommend.Pricer
	if pricingHandle.Client != nil {
		pricer = pricingHandle.Client
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //#nosec G404 -- shuffle order is not security sensitive

	return recommend.New(storeHandle.Store, igdbHandle.Client, pricer, rng, log.Logger)
}

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	engine := do.MustInvoke[*recommend.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(engine, log.Logger), nil
}
