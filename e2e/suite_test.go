//go:build e2e

// Package e2e drives a real browser against the live shop.
// Run with: go test -tags e2e ./e2e/...
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/suite"

	"ecommerce_automation/application/pages"
	"ecommerce_automation/application/result"
	"ecommerce_automation/infrastructure/browser"
	"ecommerce_automation/infrastructure/config"
	"ecommerce_automation/infrastructure/logging"
	"ecommerce_automation/infrastructure/storage"
)

// shopSuite opens one browser session per test
type shopSuite struct {
	suite.Suite

	ctx      context.Context
	cancel   context.CancelFunc
	cfg      config.Config
	store    *storage.LocatorStore
	logger   *logging.Logger
	session  *browser.Session
	recorder *result.Recorder
}

func (s *shopSuite) SetupSuite() {
	cfg, err := config.Load(config.LoadOptions{
		File:    os.Getenv("ECOM_CONFIG"),
		EnvFile: "../.env",
	})
	s.Require().NoError(err)
	if _, err := os.Stat(cfg.LocatorsFile); err != nil && !filepath.IsAbs(cfg.LocatorsFile) {
		cfg.LocatorsFile = filepath.Join("..", cfg.LocatorsFile)
	}
	if !filepath.IsAbs(cfg.LogFolder) {
		cfg.LogFolder = filepath.Join("..", cfg.LogFolder)
	}
	s.cfg = cfg

	s.store, err = storage.LoadLocatorFile(cfg.LocatorsFile)
	s.Require().NoError(err)
	if cfg.BaseURL != "" {
		s.store.OverrideBaseURL(cfg.BaseURL)
	}

	s.logger, err = logging.New(logging.Options{
		Folder: cfg.LogFolder,
		Prefix: "e2e",
		Level:  cfg.LogLevel,
	})
	s.Require().NoError(err)
}

func (s *shopSuite) TearDownSuite() {
	if s.logger != nil {
		_ = s.logger.Close()
	}
}

func (s *shopSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 2*time.Minute)

	session, err := browser.NewBrowserSession(s.ctx, s.cfg, s.logger)
	s.Require().NoError(err, "browser session")
	s.session = session
	s.recorder = result.NewRecorder(s.logger.WithField("test", s.T().Name()))
}

func (s *shopSuite) TearDownTest() {
	if s.session != nil {
		if s.T().Failed() {
			if path, err := s.session.Screenshot(context.Background(), filepath.Base(s.T().Name())); err == nil {
				s.T().Logf("screenshot: %s", path)
			}
		}
		s.NoError(s.session.Shutdown())
		s.session = nil
	}
	s.cancel()
}

// loginPage - returns the login page of the current session
func (s *shopSuite) loginPage() *pages.LoginPage {
	page, err := pages.NewLoginPage(s.session, s.store, s.logger)
	s.Require().NoError(err)
	return page
}

func (s *shopSuite) inventoryPage() *pages.InventoryPage {
	page, err := pages.NewInventoryPage(s.session, s.store, s.logger)
	s.Require().NoError(err)
	return page
}

// signIn - logs the standard user in and returns the inventory page
func (s *shopSuite) signIn() *pages.InventoryPage {
	login := s.loginPage()
	user, err := login.User("standard_user")
	s.Require().NoError(err)

	s.recorder.CheckNoError("Open login page", func() error { return login.Open(s.ctx) })
	s.Require().True(s.recorder.StepStatus())
	s.recorder.CheckNoError("Log in", func() error { return login.Login(s.ctx, user) })
	s.Require().True(s.recorder.StepStatus())

	inventory := s.inventoryPage()
	url, step := result.CheckNoException(s.recorder, "Read current URL", func() (string, error) {
		return s.session.CurrentURL(s.ctx, 0)
	})
	s.Require().True(step.Passed)
	s.recorder.CheckEqual(url, inventory.URL(), "Login redirects to the inventory page")
	s.Require().True(s.recorder.StepStatus())
	return inventory
}
