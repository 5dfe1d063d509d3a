package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/config"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/cpu"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/powercfg"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

const rootLong = `powerinfo inspects and modifies Windows power plan settings.

Without a command it prints the processor core types, the active power
profile and the heterogeneous scheduling settings of every profile.

Examples:
  powerinfo                                   # default report
  powerinfo Get Balanced "Heterogeneous thread scheduling policy"
  powerinfo Set Balanced "Heterogeneous thread scheduling policy" 1
  powerinfo list Balanced -o table            # every setting of one profile
  powerinfo snapshot save before-tuning       # keep the current state
  powerinfo apply ~/.config/powerinfo/plans   # apply plan files`

// app carries the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	out     io.Writer
	errOut  io.Writer

	api     powercfg.API
	cores   func() types.CoreTypeCounts
	closers []func() error
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
		cores:  func() types.CoreTypeCounts { return cpu.New().Counts() },
	}
}

// Execute runs the root command.
func Execute() error {
	a := newApp(os.Stdout, os.Stderr)
	defer a.close()
	return a.newRootCmd().Execute()
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "powerinfo",
		Short:             "Inspect and modify power plan settings",
		Long:              rootLong,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.bootstrap,
		RunE:              a.runReport,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ~/.config/powerinfo/config.yaml)")
	pf.StringP("output", "o", "", "output format: plain, pretty, json, jsonl, yaml, tsv, csv, markdown, template")
	pf.String("template", "", "Go template for --output template")
	pf.String("backend", "", "power configuration backend: native or memory")
	pf.String("fixture", "", "YAML or TOML fixture for the memory backend")
	pf.BoolP("verbose", "v", false, "debug output on stderr")

	_ = a.v.BindPFlag("output", pf.Lookup("output"))
	_ = a.v.BindPFlag("template", pf.Lookup("template"))
	_ = a.v.BindPFlag("backend", pf.Lookup("backend"))
	_ = a.v.BindPFlag("fixture", pf.Lookup("fixture"))
	_ = a.v.BindPFlag("verbose", pf.Lookup("verbose"))

	a.addReportFlags(root)

	root.SetHelpCommand(newHelpCmd())
	root.AddCommand(
		a.newGetCmd(),
		a.newSetCmd(),
		a.newListCmd(),
		a.newActiveCmd(),
		a.newCoresCmd(),
		a.newHistoryCmd(),
		a.newSnapshotCmd(),
		a.newApplyCmd(),
		a.newBrowseCmd(),
		a.newConfigCmd(),
		a.newVersionCmd(),
	)
	return root
}

// newHelpCmd mirrors cobra's help command and also answers to "Help".
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "help [command]",
		Aliases: []string{"Help"},
		Short:   "Help about any command",
		Run: func(c *cobra.Command, args []string) {
			cmd, _, err := c.Root().Find(args)
			if cmd == nil || err != nil {
				c.Printf("Unknown help topic %#q\n", args)
				cobra.CheckErr(c.Root().Usage())
				return
			}
			cmd.InitDefaultHelpFlag()
			cobra.CheckErr(cmd.Help())
		},
	}
}

// bootstrap loads configuration and starts logging before any command runs.
func (a *app) bootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	console := ""
	if a.v.GetBool("verbose") {
		console = "debug"
	}
	opts, err := cfg.LoggingOptions(console, cmd.Name() == "browse")
	if err != nil {
		return err
	}
	if err := logging.Init(opts); err != nil {
		// Logging is best effort.
		a.printVerbose("logging disabled: %v", err)
		return nil
	}
	a.closers = append(a.closers, logging.Close)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

// powerAPI opens the configured backend on first use.
func (a *app) powerAPI() (powercfg.API, error) {
	if a.api != nil {
		return a.api, nil
	}
	api, err := powercfg.Open(a.cfg.Backend, a.cfg.Fixture)
	if err != nil {
		return nil, err
	}
	a.api = api
	return api, nil
}

func (a *app) enumerator() (*scheme.Enumerator, error) {
	api, err := a.powerAPI()
	if err != nil {
		return nil, err
	}
	e := scheme.NewEnumerator(api)
	if err := e.Probe(); errors.Is(err, powercfg.ErrNotSupported) {
		a.printWarning("power configuration is not available on this platform; use --backend memory for a demo store")
	}
	return e, nil
}

func (a *app) accessor() (*scheme.Accessor, error) {
	api, err := a.powerAPI()
	if err != nil {
		return nil, err
	}
	return scheme.NewAccessor(api), nil
}

// printVerbose prints a message if verbose mode is enabled.
func (a *app) printVerbose(format string, args ...any) {
	if a.v.GetBool("verbose") {
		fmt.Fprintf(a.errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to standard output.
func (a *app) printInfo(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// printWarning prints a warning to stderr.
func (a *app) printWarning(format string, args ...any) {
	fmt.Fprintf(a.errOut, "Warning: "+format+"\n", args...)
}

// printError prints an error message to stderr.
func (a *app) printError(format string, args ...any) {
	fmt.Fprintf(a.errOut, "Error: "+format+"\n", args...)
}
