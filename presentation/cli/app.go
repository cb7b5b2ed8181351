package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ecommerce_automation/application/scenario"
	"ecommerce_automation/domain/interfaces"
	"ecommerce_automation/infrastructure/browser"
	"ecommerce_automation/infrastructure/config"
	"ecommerce_automation/infrastructure/logging"
	"ecommerce_automation/infrastructure/storage"
	"ecommerce_automation/infrastructure/usersapi"
)

// ErrScenariosFailed is returned by the run command when at least one scenario failed
var ErrScenariosFailed = errors.New("one or more scenarios failed")

const flagNoColor = "no-color"

// SessionFactoryFunc builds the per-scenario session factory of a run
type SessionFactoryFunc func(cfg config.Config, logger logrus.FieldLogger) scenario.SessionFactory

// Options wires the command to its environment
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// LookupEnv reads environment variables, os.LookupEnv when nil
	LookupEnv func(string) (string, bool)
	// Sessions replaces the real browser backends
	Sessions SessionFactoryFunc
}

// BrowserSessions - opens real browser sessions as configured
func BrowserSessions(cfg config.Config, logger logrus.FieldLogger) scenario.SessionFactory {
	return func(ctx context.Context) (interfaces.Session, error) {
		return browser.NewBrowserSession(ctx, cfg, logger)
	}
}

// NewRootCommand - creates the ecommerce_automation command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Sessions == nil {
		opts.Sessions = BrowserSessions
	}

	root := &cobra.Command{
		Use:           "ecommerce_automation",
		Short:         "Browser automation scenarios for the demo shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.AddCommand(newRunCommand(opts), newListCommand(opts))
	return root
}

func newRunCommand(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios, all of them when none is named",
		Long: `Run scenarios against the shop in a fresh browser session each.
A screenshot is saved to the log folder for every failed scenario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}
	config.BindFlags(cmd.Flags())
	cmd.Flags().Bool(flagNoColor, false, "disable colored output")
	return cmd
}

func newListCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printScenarios(opts.Stdout, scenario.All())
		},
	}
}

func run(cmd *cobra.Command, args []string, opts Options) error {
	fs := cmd.Flags()
	for _, name := range args {
		if _, err := scenario.Lookup(name); err != nil {
			return err
		}
	}

	file, err := fs.GetString(config.FlagConfig)
	if err != nil {
		return err
	}
	envFile, err := fs.GetString(config.FlagEnvFile)
	if err != nil {
		return err
	}
	noColor, err := fs.GetBool(flagNoColor)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{
		File:    file,
		EnvFile: envFile,
		Lookup:  opts.LookupEnv,
		Flags:   fs,
	})
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Folder: cfg.LogFolder,
		Prefix: cfg.LogPrefix,
		Level:  cfg.LogLevel,
		Stderr: opts.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	store, err := storage.LoadLocatorFile(cfg.LocatorsFile)
	if err != nil {
		return err
	}
	if cfg.BaseURL != "" {
		store.OverrideBaseURL(cfg.BaseURL)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings := scenario.DefaultSettings()
	settings.LoginTimeLimit = cfg.LoginTimeLimit.Std()
	if cfg.UsersAPIURL != "" {
		client := usersapi.NewClient(cfg.UsersAPIURL, cfg.APITimeout.Std(), logger)
		if err := client.Ping(ctx); err != nil {
			logger.WithError(err).Warn("Users API unavailable, using seed users from the locators file")
		} else {
			settings.Users = client
		}
	}

	logger.Infof("Running against %s with %s/%s, log file %s", store.BaseURL(), cfg.Driver, cfg.Browser, logger.Path())

	runner := scenario.NewRunner(opts.Sessions(cfg, logger), store, settings, logger)
	reports, err := runner.Run(ctx, args...)
	if perr := printReports(opts.Stdout, reports, noColor); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}

	for _, r := range reports {
		if !r.Passed {
			return ErrScenariosFailed
		}
	}
	return nil
}

// Execute - runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, opts Options) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrScenariosFailed):
		return 1
	default:
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
}
