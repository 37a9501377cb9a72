package observe

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every observability environment variable.
const EnvPrefix = "GQLPATCH_"

// ConfigFromEnv loads Config from GQLPATCH_* environment variables, e.g.
// GQLPATCH_SERVICE_NAME, GQLPATCH_TRACING_EXPORTER, GQLPATCH_METRICS_ENABLED
// and GQLPATCH_LOG_LEVEL. The result is validated.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
