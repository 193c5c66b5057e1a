package wpfs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	msgNoCredentials = "Filesystem credentials were not provided."
	msgConnectFailed = "Failed to connect to the filesystem with the provided credentials."
)

func connectionError(msg string, cause error) error {
	return &FSError{Op: "connect", Msg: msg, Err: ErrConnection, Cause: cause}
}

// Initialize creates and connects the host described by cfg. Failures
// unwrap to ErrConnection.
func Initialize(ctx context.Context, cfg *Config, logger zerolog.Logger) (Host, Runtime, error) {
	if cfg.Method == "ssh2" && cfg.FTPUser == "" {
		return nil, nil, connectionError(msgNoCredentials, nil)
	}

	host, rt, err := CreateHost(cfg)
	if err != nil {
		logger.Error().Err(err).Str("method", cfg.Method).Msg("filesystem host could not be created")
		return nil, nil, connectionError(msgConnectFailed, err)
	}

	if err := host.Connect(ctx); err != nil {
		logger.Error().Err(err).Str("method", cfg.Method).Msg("filesystem connection failed")
		if closer, ok := host.(CanClose); ok {
			_ = closer.Close()
		}
		return nil, nil, connectionError(msgConnectFailed, err)
	}

	logger.Info().
		Str("method", cfg.Method).
		Str("abspath", host.Abspath()).
		Msg("filesystem initialized")
	return host, rt, nil
}

// WrapCache puts a CachingHost in front of host when cfg enables it.
func WrapCache(host Host, cfg *Config) Host {
	if cfg.CacheTTL <= 0 && !cfg.Watch {
		return host
	}
	return NewCachingHost(host, time.Duration(cfg.CacheTTL)*time.Second)
}
