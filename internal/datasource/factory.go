package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/matchcast/internal/config"
	"github.com/yourusername/matchcast/internal/repository"
)

// NewMatchSource creates the match source named by configuration. The
// repositories argument is only required for the postgres source and may be
// nil otherwise.
func NewMatchSource(cfg *config.Config, repos *repository.Repositories, logger *logrus.Logger) (MatchSource, error) {
	switch cfg.Data.Source {
	case "file":
		if cfg.Data.MatchFile == "" {
			return nil, fmt.Errorf("file source requires data.match_file")
		}
		return NewFileSource(cfg.Data.MatchFile, logger), nil

	case "api":
		if cfg.Data.API.BaseURL == "" {
			return nil, fmt.Errorf("api source requires data.api.base_url")
		}
		httpCfg := DefaultHTTPClientConfig()
		if cfg.Data.API.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.Data.API.TimeoutSeconds) * time.Second
		}
		if cfg.Data.API.RateLimit > 0 {
			httpCfg.RateLimit = cfg.Data.API.RateLimit
		}
		client := NewRateLimitedHTTPClient(httpCfg, logger)
		return NewFootballAPISource(cfg.Data.API, client, logger), nil

	case "postgres":
		if repos == nil {
			return nil, fmt.Errorf("postgres source requires a database connection")
		}
		return NewPostgresSource(repos.Match, logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Data.Source)
	}
}
