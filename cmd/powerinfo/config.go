package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage powerinfo configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/powerinfo/config.yaml (if set)
  2. ~/.config/powerinfo/config.yaml

Environment variables can override config file settings using the POWERINFO_ prefix:
  POWERINFO_OUTPUT=json
  POWERINFO_BACKEND=memory
  POWERINFO_HISTORY_RETENTION_DAYS=30`,
		// A broken config file must not lock the user out of 'config edit'.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bootstrap(cmd, args); err != nil {
				a.printError("Failed to load configuration: %v", err)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Long:  `Display the current configuration settings from all sources.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create default configuration file",
			Long:  `Create a default configuration file if one doesn't exist.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigPath,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration file",
			Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
			Args: cobra.NoArgs,
			RunE: a.runConfigEdit,
		},
	)
	return cmd
}

// configEnvVars lists the environment variables shown by 'config show'.
var configEnvVars = []string{
	"output",
	"backend",
	"fixture",
	"report.match",
	"report.include",
	"report.exclude",
	"report.schemes",
	"report.sort",
	"report.limit",
	"history.enabled",
	"history.path",
	"history.retention_days",
	"snapshot.path",
	"apply.debounce",
	"logging.level",
	"logging.path",
}

func envName(key string) string {
	return "POWERINFO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if cfg == nil {
		return errors.New("no usable configuration; run 'powerinfo config edit' to fix it")
	}

	w := a.out
	if file := a.v.ConfigFileUsed(); file != "" {
		if _, err := os.Stat(file); err == nil {
			fmt.Fprintf(w, "Config file: %s\n\n", file)
		} else {
			fmt.Fprintf(w, "Config file: (using defaults, no file found)\n\n")
		}
	} else {
		fmt.Fprintf(w, "Config file: (using defaults, no file found)\n\n")
	}

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "output:                  %s\n", cfg.Output)
	fmt.Fprintf(w, "backend:                 %s\n", cfg.Backend)
	fmt.Fprintf(w, "fixture:                 %s\n", cfg.Fixture)
	fmt.Fprintf(w, "report.match:            %v\n", cfg.Report.Match)
	fmt.Fprintf(w, "report.include:          %v\n", cfg.Report.Include)
	fmt.Fprintf(w, "report.exclude:          %v\n", cfg.Report.Exclude)
	fmt.Fprintf(w, "report.schemes:          %v\n", cfg.Report.Schemes)
	fmt.Fprintf(w, "report.sort:             %s\n", cfg.Report.Sort)
	fmt.Fprintf(w, "report.limit:            %d\n", cfg.Report.Limit)
	fmt.Fprintf(w, "history.enabled:         %t\n", cfg.History.Enabled)
	fmt.Fprintf(w, "history.path:            %s\n", cfg.History.Path)
	fmt.Fprintf(w, "history.retention:       %d days\n", cfg.History.RetentionDays)
	fmt.Fprintf(w, "snapshot.path:           %s\n", cfg.Snapshot.Path)
	fmt.Fprintf(w, "apply.debounce:          %s\n", cfg.Apply.Debounce)
	fmt.Fprintf(w, "logging.level:           %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "logging.path:            %s\n", cfg.Logging.Path)

	fmt.Fprintln(w, "\nEnvironment Overrides:")
	fmt.Fprintln(w, "----------------------")
	anyOverrides := false
	for _, key := range configEnvVars {
		name := envName(key)
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(w, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(w, "(none)")
	}
	return nil
}

// configFile is the file the config commands operate on.
func (a *app) configFile() (string, error) {
	if a.cfgFile != "" {
		return config.ExpandPath(a.cfgFile)
	}
	return config.ConfigPath()
}

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}
	written, err := config.WriteDefault(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !written {
		a.printInfo("Config file already exists: %s", path)
		a.printInfo("Use 'powerinfo config edit' to modify it.")
		return nil
	}
	a.printInfo("Created default config file: %s", path)
	return nil
}

func (a *app) runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}
	a.printInfo("%s", path)

	if _, err := os.Stat(path); err == nil {
		a.printVerbose("File exists")
	} else if os.IsNotExist(err) {
		a.printVerbose("File does not exist (will use defaults)")
	}
	return nil
}

func (a *app) runConfigEdit(cmd *cobra.Command, args []string) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}
	if _, err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	a.printVerbose("Opening %s with %s", path, editor)

	editorCmd := exec.CommandContext(cmd.Context(), editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}
