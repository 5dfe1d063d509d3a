package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/cmd/powerinfo/tui"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
)

func (a *app) newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit power profiles interactively",
		Long: `Open an interactive view of every power profile and its settings.

Select a profile with Enter, then press 'a' or 'd' to edit the AC or DC value
of the highlighted setting. Writes activate the profile and are recorded in
the history. Press 'L' to show recent log entries.`,
		Args: cobra.NoArgs,
		RunE: a.runBrowse,
	}
}

func (a *app) runBrowse(cmd *cobra.Command, args []string) error {
	e, err := a.enumerator()
	if err != nil {
		return err
	}
	acc, err := a.accessor()
	if err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Enumerator: e,
		Accessor:   acc,
		Cores:      a.cores(),
		Logs:       logging.Recent(),
		OnChange: func(changes []history.Change) {
			a.journal(history.OpSet, "browse", changes)
		},
	})
}
