package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/application/result"
	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/logging"
)

// SessionFactory opens a fresh browser session for one scenario
type SessionFactory func(ctx context.Context) (interfaces.Session, error)

// Runner executes scenarios, each one in its own browser session
type Runner struct {
	factory  SessionFactory
	source   interfaces.LocatorSource
	settings Settings
	logger   logrus.FieldLogger
}

// NewRunner - creates a runner
func NewRunner(factory SessionFactory, source interfaces.LocatorSource, settings Settings, logger logrus.FieldLogger) *Runner {
	return &Runner{
		factory:  factory,
		source:   source,
		settings: settings,
		logger:   logging.Component(logger, "runner"),
	}
}

// Run - executes the named scenarios in order, or all of them when names is empty.
// A failed scenario does not stop the others; a canceled context does.
func (r *Runner) Run(ctx context.Context, names ...string) ([]entities.ScenarioReport, error) {
	scenarios := All()
	if len(names) > 0 {
		scenarios = scenarios[:0]
		for _, name := range names {
			s, err := Lookup(name)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, s)
		}
	}

	reports := make([]entities.ScenarioReport, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return reports, fmt.Errorf("run canceled: %w", err)
		}
		reports = append(reports, r.RunScenario(ctx, s))
	}
	return reports, nil
}

// RunScenario - executes one scenario and reports its steps
func (r *Runner) RunScenario(ctx context.Context, s Scenario) entities.ScenarioReport {
	logger := r.logger.WithField("scenario", s.Name)
	logger.Infof("Starting scenario: %s", s.Description)

	start := time.Now()
	report := entities.ScenarioReport{Name: s.Name}

	session, err := r.factory(ctx)
	if err != nil {
		report.Err = fmt.Errorf("failed to start session: %w", err)
		report.Duration = time.Since(start)
		logger.WithError(report.Err).Error("Scenario could not start")
		return report
	}

	recorder := result.NewRecorder(logger)
	env := &Env{
		Session:  session,
		Source:   r.source,
		Recorder: recorder,
		Logger:   logger,
		Settings: r.settings,
	}

	err = s.Run(ctx, env)
	report.Steps = env.Steps()
	report.Passed = err == nil
	report.Err = err

	if err != nil {
		if !errors.Is(err, ErrStepFailed) {
			logger.WithError(err).Error("Scenario aborted")
		}
		r.screenshot(context.WithoutCancel(ctx), session, s.Name, logger)
	}

	if err := session.Shutdown(); err != nil {
		logger.WithError(err).Warn("Failed to close browser session")
	}

	report.Duration = time.Since(start)
	if report.Passed {
		logger.Infof("Scenario passed in %s", report.Duration.Round(time.Millisecond))
	} else {
		logger.Errorf("Scenario failed in %s", report.Duration.Round(time.Millisecond))
	}
	return report
}

func (r *Runner) screenshot(ctx context.Context, session interfaces.Session, name string, logger logrus.FieldLogger) {
	path, err := session.Screenshot(ctx, name+"_failure")
	if err != nil {
		logger.WithError(err).Warn("Failed to take screenshot")
		return
	}
	logger.Infof("Screenshot saved: %s", path)
}
