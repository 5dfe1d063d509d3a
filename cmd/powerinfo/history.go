package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/filter"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
)

func (a *app) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View the history of value changes",
		Long: `View the journal of Set, apply, restore and undo operations.

Each entry records the previous and new value of every rail written, so an
entry can be reverted with 'powerinfo history undo <id>'.`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}
	cmd.Flags().IntP("limit", "l", 20, "maximum number of entries to show")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details of a specific operation",
		Long:  `Display every change of one operation. A unique ID prefix is accepted.`,
		Args:  cobra.ExactArgs(1),
		RunE:  a.runHistoryShow,
	}

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Clean up old history entries",
		Long: `Remove history entries older than the retention period.

--older-than accepts Go durations (72h) and calendar units (30d, 2w, 6mo, 1y).`,
		Args: cobra.NoArgs,
		RunE: a.runHistoryClean,
	}
	clean.Flags().String("older-than", "", "override history.retention_days")

	undo := &cobra.Command{
		Use:   "undo <id>",
		Short: "Revert the changes of an operation",
		Long: `Write back the previous value of every successful change of an operation
and activate the affected profiles. The reversal is itself recorded.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runHistoryUndo,
	}

	cmd.AddCommand(show, clean, undo)
	return cmd
}

func (a *app) journalStore() (*history.Journal, error) {
	j, err := history.New(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return j, nil
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	j, err := a.journalStore()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := j.List(0)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(entries) == 0 {
		a.printInfo("No history entries found.")
		a.printInfo("Run 'powerinfo Set <profile> <setting> <value>' to change a setting.")
		return nil
	}
	total := len(entries)
	if limit > 0 && total > limit {
		entries = entries[:limit]
	}

	w := a.out
	fmt.Fprintf(w, "\n%-40s  %-8s  %-7s  %-6s  %s\n", "ID", "TYPE", "CHANGES", "FAILED", "WHEN")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(w, "%-40s  %-8s  %-7d  %-6d  %s\n",
			truncateString(e.ID, 40),
			e.Operation,
			e.Summary.Total,
			e.Summary.Failed,
			humanize.Time(e.Timestamp),
		)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "\nShowing %d of %d entries. Use --limit to see more.\n", len(entries), total)
	fmt.Fprintln(w, "Use 'powerinfo history show <id>' for details on a specific entry.")
	return nil
}

func (a *app) runHistoryShow(cmd *cobra.Command, args []string) error {
	j, err := a.journalStore()
	if err != nil {
		return err
	}
	entry, err := j.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	w := a.out
	fmt.Fprintln(w, "\nOperation Details")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID:         %s\n", entry.ID)
	fmt.Fprintf(w, "Timestamp:  %s (%s)\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(entry.Timestamp))
	fmt.Fprintf(w, "Operation:  %s\n", entry.Operation)
	if entry.Source != "" {
		fmt.Fprintf(w, "Source:     %s\n", entry.Source)
	}
	fmt.Fprintf(w, "Changes:    %d (%d failed)\n", entry.Summary.Total, entry.Summary.Failed)

	if len(entry.Changes) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nChanges:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, c := range entry.Changes {
		status := "ok"
		if !c.Applied() {
			status = "failed: " + c.Error
		}
		fmt.Fprintf(w, "%s / %s [%s]: %s -> %d (%s)\n", c.SchemeName, c.SettingName, c.Rail, c.Old, c.New, status)
	}
	return nil
}

func (a *app) runHistoryClean(cmd *cobra.Command, args []string) error {
	j, err := a.journalStore()
	if err != nil {
		return err
	}

	retention := a.cfg.Retention()
	if olderThan, _ := cmd.Flags().GetString("older-than"); olderThan != "" {
		retention, err = filter.ParseDuration(olderThan)
		if err != nil {
			return err
		}
	}
	if retention <= 0 {
		a.printInfo("History retention is disabled; nothing to clean.")
		return nil
	}

	a.printInfo("Cleaning history entries older than %s...", humanize.Time(time.Now().Add(-retention)))
	removed, err := j.Cleanup(retention)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	a.printInfo("Removed %d %s.", removed, plural(removed, "entry", "entries"))
	return nil
}

func (a *app) runHistoryUndo(cmd *cobra.Command, args []string) error {
	j, err := a.journalStore()
	if err != nil {
		return err
	}
	acc, err := a.accessor()
	if err != nil {
		return err
	}

	entry, err := j.Undo(acc, args[0])
	if entry == nil {
		return fmt.Errorf("failed to undo: %w", err)
	}
	a.printInfo("Reverted %d of %d %s (recorded as %s).",
		entry.Summary.Succeeded, entry.Summary.Total, plural(entry.Summary.Total, "change", "changes"), entry.ID)
	if err != nil {
		a.printWarning("%v", err)
	}
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
