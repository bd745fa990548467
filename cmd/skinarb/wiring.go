package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinarb/skinarb/internal/cache"
	"github.com/skinarb/skinarb/internal/config"
	"github.com/skinarb/skinarb/internal/httpengine"
	"github.com/skinarb/skinarb/internal/paths"
	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/proxypool"
	"github.com/skinarb/skinarb/internal/secrets"
	"github.com/skinarb/skinarb/internal/telemetry"
	"github.com/skinarb/skinarb/internal/venue"
	"github.com/skinarb/skinarb/internal/venue/adapters"
)

// core bundles the components every subcommand needs, assembled once from
// config files and the environment (spec §6: configuration loading and
// secret resolution are both external-collaborator concerns the CLI owns).
type core struct {
	paths      *paths.Registry
	settings   *config.Settings
	scrapers   *config.ScrapersConfig
	apiKeys    *config.APIKeysConfig
	filters    *config.SearchFiltersConfig
	proxyPools *config.ProxyPoolsConfig
	secrets    *secrets.Registry
	telemetry  *telemetry.Registry
	cache      *cache.Manager
}

func loadCore() (*core, error) {
	p := paths.New()
	if err := p.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("ensure data directories: %w", err)
	}

	settings, err := config.LoadSettings(p.ConfigFile("settings.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load settings.yaml: %w", err)
	}
	scrapers, err := config.LoadScrapersConfig(p.ConfigFile("scrapers.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load scrapers.yaml: %w", err)
	}
	apiKeys, err := config.LoadAPIKeysConfig(p.ConfigFile("api_keys.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load api_keys.yaml: %w", err)
	}
	filters, err := config.LoadSearchFiltersConfig(p.ConfigFile("search_filters.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load search_filters.yaml: %w", err)
	}
	proxyPools, err := config.LoadProxyPoolsConfig(p.ConfigFile("proxy_pools.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load proxy_pools.yaml: %w", err)
	}

	secretsReg := secrets.NewRegistry()
	tel := telemetry.NewRegistry()
	cacheStore := cache.NewAuto(settings.CacheMemoryLimitItems)
	cacheMgr := cache.NewManager(cacheStore, time.Duration(settings.CacheDefaultTTLSecond)*time.Second)

	return &core{
		paths:      p,
		settings:   settings,
		scrapers:   scrapers,
		apiKeys:    apiKeys,
		filters:    filters,
		proxyPools: proxyPools,
		secrets:    secretsReg,
		telemetry:  tel,
		cache:      cacheMgr,
	}, nil
}

// buildProxyPool wires a health-scored Manager from proxy_pools.yaml, only
// when proxying is enabled and at least one pool has addresses configured.
// Grounded on spec §4.2's "keep allow-list aligned with egress IP"
// responsibility.
func (c *core) buildProxyPool() *proxypool.Manager {
	if !c.settings.ProxyEnabled || !secrets.BoolToggle("BOT_USE_PROXY", true) {
		return nil
	}
	if len(c.proxyPools.Pools) == 0 {
		log.Warn().Msg("proxying enabled but proxy_pools.yaml declares no pools, running without a proxy pool")
		return nil
	}
	mgr := proxypool.NewManager(newHTTPIPResolver(), newOculusAllowListUpdater(c.secrets))
	for name, pool := range c.proxyPools.Pools {
		if len(pool.Addresses) == 0 {
			continue
		}
		mgr.AddPool(name, pool.GeoTag, pool.Addresses)
	}
	if err := mgr.RefreshAllowListIfNeeded(); err != nil {
		log.Warn().Err(err).Msg("initial proxy allow-list refresh failed, continuing with last-known state")
	}
	return mgr
}

// buildEngine assembles the HTTP Engine with telemetry hooks, the proxy
// pool (if enabled), and per-venue rate limits from scrapers.yaml overrides.
func (c *core) buildEngine(proxies *proxypool.Manager) *httpengine.Engine {
	opts := []httpengine.Option{httpengine.WithTelemetry(c.telemetry)}
	if proxies != nil {
		opts = append(opts, httpengine.WithProxyPool(proxies))
	}
	engine := httpengine.New(opts...)
	for id, override := range c.scrapers.Adapters {
		if override.RatePerMinute > 0 {
			engine.ConfigureVenue(id, override.RatePerMinute, override.Burst)
		}
	}
	return engine
}

// buildRegistry registers every venue adapter and wires their URL templates
// into engine. steamItemNames seeds SteamMarket's nameid_batch plan.
func (c *core) buildRegistry(profitEngine *profit.Engine, steamItemNames []string) (*venue.Registry, error) {
	reg := venue.NewRegistry()
	if err := adapters.RegisterAll(reg, profitEngine, steamItemNames); err != nil {
		return nil, fmt.Errorf("register venue adapters: %w", err)
	}
	return reg, nil
}
