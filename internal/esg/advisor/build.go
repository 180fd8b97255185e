package advisor

import (
	"context"

	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
)

// New assembles the advisor chain from cfg: Claude (optionally cached in
// redis) with the static catalog as fallback. Without an API key only the
// static advisor is used. The returned close func releases the cache.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (Advisor, func() error) {
	noop := func() error { return nil }
	claude, err := NewClaude(cfg.Advisor)
	if err != nil {
		log.Info("language model advice disabled", "reason", err)
		return Static{}, noop
	}

	var primary Advisor = claude
	closeFn := noop
	if cfg.Redis.Addr != "" {
		cache, err := NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn("advice cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			primary = NewCached(claude, cache, cfg.Redis.TTL, log)
			closeFn = cache.Close
		}
	}
	log.Info("language model advice enabled", "model", claude.model)
	return Fallback{Primary: primary, Secondary: Static{}, Log: log}, closeFn
}
