package providers

import (
	"github.com/samber/do/v2"

	"github.com/questlogapp/questlog-server/internal/catalog/igdb"
	"github.com/questlogapp/questlog-server/internal/config"
	"github.com/questlogapp/questlog-server/internal/logger"
	"github.com/questlogapp/questlog-server/internal/pricing"
)

// IGDBClientHandle wraps the IGDB client with shutdown capability.
type IGDBClientHandle struct {
	*igdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *IGDBClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideIGDBClient provides the IGDB catalog client.
func ProvideIGDBClient(i do.Injector) (*IGDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.IGDB.ClientID == "" || cfg.IGDB.ClientSecret == "" {
		log.Warn("IGDB credentials not configured, catalog lookups will fail")
	}

	client := igdb.New(igdb.Config{
		ClientID:     cfg.IGDB.ClientID,
		ClientSecret: cfg.IGDB.ClientSecret,
	}, log.Logger)

	return &IGDBClientHandle{Client: client}, nil
}

// PricingClientHandle wraps the deal-lookup client. Client is nil when
// price lookups are disabled.
type PricingClientHandle struct {
	Client *pricing.Client
}

// ProvidePricingClient provides the CheapShark deal-lookup client.
func ProvidePricingClient(i do.Injector) (*PricingClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Pricing.Enabled {
		log.Info("Price lookups disabled")
		return &PricingClientHandle{}, nil
	}

	return &PricingClientHandle{Client: pricing.New("", log.Logger)}, nil
}
