package main

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"shotscraper/internal/config"
	friendlyerrors "shotscraper/internal/errors"
	"shotscraper/internal/lockfile"
	"shotscraper/internal/logging"
	"shotscraper/internal/metrics"
	"shotscraper/internal/state"
)

type commandContext struct {
	configFlag *string
	logLevel   *string
	jsonOut    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	log     *logging.Logger
}

func newCommandContext(configFlag, logLevel *string, jsonOut *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logLevel:   logLevel,
		jsonOut:    jsonOut,
	}
}

// ensureConfig loads --config strictly; the default location may be absent.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		var cfg *config.Config
		var err error
		if path != "" {
			cfg, err = config.Load(path)
		} else {
			cfg, err = config.LoadOrDefault(config.DefaultPath())
		}
		if err != nil {
			c.configErr = friendlyerrors.ConfigError("config", err.Error()).WithDetails(err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonOut != nil && *c.jsonOut
}

func (c *commandContext) logger() *logging.Logger {
	c.logOnce.Do(func() {
		level := ""
		if c.logLevel != nil {
			level = *c.logLevel
		}
		format := ""
		if cfg, err := c.ensureConfig(); err == nil {
			if level == "" {
				level = cfg.Logging.Level
			}
			format = cfg.Logging.Format
		}
		jsonLogs := strings.EqualFold(format, "json")
		// logs stay on stderr so stdout carries only command output
		c.log = logging.NewWithWriter(stderr, level, jsonLogs)
	})
	return c.log
}

func (c *commandContext) metrics() *metrics.Manager {
	cfg, _ := c.ensureConfig()
	return metrics.New(cfg)
}

// withState opens the history database for fn.
func (c *commandContext) withState(fn func(*state.DB) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := state.Open(cfg)
	if err != nil {
		return friendlyerrors.DatabaseError(err)
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}

// withLock holds <data_root>/shotscraper.lock while fn runs.
func (c *commandContext) withLock(ctx context.Context, fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lk, err := lockfile.Acquire(ctx, filepath.Join(cfg.General.DataRoot, "shotscraper.lock"))
	if err != nil {
		return friendlyerrors.PathError(cfg.General.DataRoot, err)
	}
	defer func() { _ = lk.Release() }()
	return fn()
}
