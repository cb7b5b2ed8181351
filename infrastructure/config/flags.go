package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names
const (
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
	FlagLogFolder = "log-folder"
	FlagLogLevel  = "log-level"
	FlagBrowser   = "browser"
	FlagDriver    = "driver"
	FlagHeadless  = "headless"
	FlagMaximized = "maximized"
	FlagGPU       = "gpu"
	FlagSandbox   = "sandbox"
	FlagBaseURL   = "base-url"
	FlagLocators  = "locators"
	FlagUsersAPI  = "users-api"
	FlagTimeout   = "timeout"
)

// BindFlags - registers the run flags on a flag set
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, "", "path to a TOML configuration file")
	fs.String(FlagEnvFile, ".env", "path to an optional .env file")
	fs.String(FlagLogFolder, def.LogFolder, "folder to store logs and screenshots")
	fs.String(FlagLogLevel, def.LogLevel, "log level")
	fs.String(FlagBrowser, def.Browser, "browser to execute the scenarios (Chrome, Firefox, Edge)")
	fs.String(FlagDriver, def.Driver, "automation backend (selenium, playwright)")
	fs.Bool(FlagHeadless, def.Headless, "run the browser without a window")
	fs.Bool(FlagMaximized, def.Maximized, "start the browser window maximized")
	fs.Bool(FlagGPU, def.GPU, "keep GPU acceleration enabled")
	fs.Bool(FlagSandbox, def.Sandbox, "keep the browser sandbox enabled")
	fs.String(FlagBaseURL, "", "override the site base URL from the locators file")
	fs.String(FlagLocators, def.LocatorsFile, "path to the YAML locators file")
	fs.String(FlagUsersAPI, "", "base URL of the users helper API")
	fs.Duration(FlagTimeout, def.DefaultTimeout.Std(), "default element wait timeout")
}

// applyFlags copies only the flags the user actually set
func (c *Config) applyFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}
	boolean := func(name string, dst *bool) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetBool(name)
	}

	str(FlagLogFolder, &c.LogFolder)
	str(FlagLogLevel, &c.LogLevel)
	str(FlagBrowser, &c.Browser)
	str(FlagDriver, &c.Driver)
	str(FlagBaseURL, &c.BaseURL)
	str(FlagLocators, &c.LocatorsFile)
	str(FlagUsersAPI, &c.UsersAPIURL)
	boolean(FlagHeadless, &c.Headless)
	boolean(FlagMaximized, &c.Maximized)
	boolean(FlagGPU, &c.GPU)
	boolean(FlagSandbox, &c.Sandbox)

	if err == nil && fs.Changed(FlagTimeout) {
		d, derr := fs.GetDuration(FlagTimeout)
		if derr != nil {
			err = derr
		} else {
			c.DefaultTimeout = Duration(d)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	return nil
}
