package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go-camerafy"
	"github.com/anatolykoptev/go-camerafy/internal/config"
	"github.com/anatolykoptev/go-camerafy/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	engineOnce sync.Once
	engine     *camerafy.Engine
	engineErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureEngine builds the resolver engine from the configured catalog
// directory, or from the embedded catalogs when none is set.
func (c *commandContext) ensureEngine() (*camerafy.Engine, error) {
	c.engineOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.engineErr = err
			return
		}
		if cfg.Catalogs.Dir == "" {
			c.engine = camerafy.NewEngine(nil)
			return
		}
		cats, err := camerafy.LoadCatalogs(cfg.Catalogs.Dir)
		if err != nil {
			c.engineErr = fmt.Errorf("load catalogs: %w", err)
			return
		}
		c.engine = camerafy.NewEngine(camerafy.NewIndex(cats))
	})
	return c.engine, c.engineErr
}

// gate returns the upload gate configured from the loaded settings.
func (c *commandContext) gate() (*camerafy.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	engine, err := c.ensureEngine()
	if err != nil {
		return nil, err
	}
	return &camerafy.Config{
		Engine:         engine,
		CutoffYear:     cfg.Gate.CutoffYear,
		Workers:        cfg.Gate.Workers,
		MaxUploadBytes: cfg.Gate.MaxUploadBytes,
		FetchTimeout:   time.Duration(cfg.Gate.FetchTimeout) * time.Second,
	}, nil
}
