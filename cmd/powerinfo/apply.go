package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/config"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/plan"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
)

func (a *app) newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file-or-dir>",
		Short: "Apply plan files",
		Long: `Apply the settings listed in a plan file, or in every plan file under a
directory. Plans are YAML (.yaml, .yml) or TOML (.toml):

  name: quiet-battery
  activate: true
  settings:
    - scheme: Balanced
      setting: Heterogeneous thread scheduling policy
      ac: 0
      dc: 1

With --watch, plans are re-applied whenever a matching file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runApply,
	}
	cmd.Flags().BoolP("watch", "w", false, "re-apply plans when they change")
	cmd.Flags().StringSlice("pattern", nil, "plan file glob patterns (default: *.yaml, *.yml, *.toml)")
	return cmd
}

func (a *app) runApply(cmd *cobra.Command, args []string) error {
	root, err := expandArg(args[0])
	if err != nil {
		return err
	}
	patterns, _ := cmd.Flags().GetStringSlice("pattern")
	m, err := plan.NewMatcher(patterns...)
	if err != nil {
		return err
	}
	acc, err := a.accessor()
	if err != nil {
		return err
	}

	files, err := plan.Discover(root, m)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.printWarning("no plan files found in %s", root)
	}
	a.applyFiles(acc, files)

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}

	w, err := plan.NewWatcher(root, m, a.cfg.Apply.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.printInfo("Watching %s for changes. Press Ctrl+C to stop.", root)
	err = w.Run(ctx, func(paths []string) {
		var existing []string
		for _, p := range paths {
			if _, statErr := os.Stat(p); statErr == nil {
				existing = append(existing, p)
			}
		}
		a.applyFiles(acc, existing)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyFiles applies each plan in turn. Failures are reported and do not stop
// the remaining plans.
func (a *app) applyFiles(acc *scheme.Accessor, files []string) {
	for _, f := range files {
		p, err := plan.Load(f)
		if err != nil {
			a.printError("%v", err)
			continue
		}

		applied, err := plan.Apply(acc, p)
		a.journal(history.OpApply, f, applied)

		succeeded := 0
		for _, c := range applied {
			if c.Applied() {
				succeeded++
			}
		}
		a.printInfo("Applied %s: %d of %d %s.", planLabel(p), succeeded, len(applied), plural(len(applied), "value", "values"))
		if err != nil {
			a.printWarning("%v", err)
		}
	}
}

func planLabel(p *plan.Plan) string {
	if p.Name == "" {
		return p.Path
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Path)
}

// expandArg expands a leading ~ in a path argument.
func expandArg(path string) (string, error) {
	return config.ExpandPath(path)
}
