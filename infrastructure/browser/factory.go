package browser

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/errs"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/config"
)

// NewDriver - starts the backend named by cfg.Driver for cfg.Browser
func NewDriver(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.New(errs.ErrSession, "new driver", cfg.Driver, err)
	}

	switch cfg.Browser {
	case config.BrowserChrome, config.BrowserFirefox, config.BrowserEdge:
	default:
		return nil, errs.New(errs.ErrSession, "new driver", cfg.Browser, fmt.Errorf("unsupported browser %q", cfg.Browser))
	}

	logger = logger.WithField("component", "driver")
	logger.Infof("Starting %s with %s", cfg.Browser, cfg.Driver)

	var (
		driver interfaces.Driver
		err    error
	)
	switch cfg.Driver {
	case config.DriverSelenium:
		driver, err = newSeleniumDriver(cfg, logger)
	case config.DriverPlaywright:
		driver, err = newPlaywrightDriver(cfg, logger)
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errs.New(errs.ErrSession, "new driver", cfg.Driver, err)
	}
	return driver, nil
}

// NewBrowserSession - starts a backend and wraps it in a session configured from cfg
func NewBrowserSession(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, opts ...SessionOption) (*Session, error) {
	driver, err := NewDriver(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	base := []SessionOption{
		WithDefaultTimeout(cfg.DefaultTimeout.Std()),
		WithPollInterval(cfg.PollInterval.Std()),
		WithArtifactsDir(cfg.LogFolder),
	}
	return NewSession(driver, logger, append(base, opts...)...), nil
}
