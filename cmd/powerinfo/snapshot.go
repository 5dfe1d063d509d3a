package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/output"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/snapshot"
)

func (a *app) newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, compare and restore power settings",
		Long: `Manage snapshots of every power profile and setting.

Snapshots are stored in $XDG_DATA_HOME/powerinfo/snapshots (see snapshot.path).
A snapshot is referenced by its name, its ID or a unique ID prefix. Settings
are matched by GUID, so renamed profiles still compare and restore correctly.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save [name]",
			Short: "Capture the current settings",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runSnapshotSave,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved snapshots",
			Args:  cobra.NoArgs,
			RunE:  a.runSnapshotList,
		},
		&cobra.Command{
			Use:   "show <ref>",
			Short: "Show the settings of a snapshot",
			Long:  `Show the settings of a snapshot using the selected --output format.`,
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSnapshotShow,
		},
		&cobra.Command{
			Use:   "diff <ref> [ref]",
			Short: "Compare a snapshot with another or with the live settings",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  a.runSnapshotDiff,
		},
		&cobra.Command{
			Use:   "restore <ref>",
			Short: "Write back the values of a snapshot",
			Long: `Write every value that differs from the live settings back, then activate
the profile that was active when the snapshot was taken. The restore is
recorded in the history and can be undone.`,
			Args: cobra.ExactArgs(1),
			RunE: a.runSnapshotRestore,
		},
		&cobra.Command{
			Use:     "delete <ref>",
			Aliases: []string{"rm"},
			Short:   "Delete a snapshot",
			Args:    cobra.ExactArgs(1),
			RunE:    a.runSnapshotDelete,
		},
	)
	return cmd
}

// snapshots opens the snapshot store; it is closed with the app.
func (a *app) snapshots() (*snapshot.Store, error) {
	st, err := snapshot.Open(a.cfg.Snapshot.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	return st, nil
}

func (a *app) runSnapshotSave(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	e, err := a.enumerator()
	if err != nil {
		return err
	}
	st, err := a.snapshots()
	if err != nil {
		return err
	}

	snap := snapshot.Capture(e, name)
	if err := st.Save(snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	sum := snap.Summary()
	a.printInfo("Saved snapshot %s (%d profiles, %d settings).", snapshotLabel(sum), sum.Schemes, sum.Settings)
	return nil
}

func (a *app) runSnapshotList(cmd *cobra.Command, args []string) error {
	st, err := a.snapshots()
	if err != nil {
		return err
	}
	list, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(list) == 0 {
		a.printInfo("No snapshots found.")
		a.printInfo("Run 'powerinfo snapshot save <name>' to create one.")
		return nil
	}

	w := a.out
	fmt.Fprintf(w, "\n%-36s  %-20s  %-8s  %-8s  %s\n", "ID", "NAME", "PROFILES", "SETTINGS", "CREATED")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, s := range list {
		fmt.Fprintf(w, "%-36s  %-20s  %-8d  %-8d  %s\n",
			s.ID,
			truncateString(s.Name, 20),
			s.Schemes,
			s.Settings,
			humanize.Time(s.CreatedAt),
		)
	}
	fmt.Fprintln(w, strings.Repeat("-", 90))
	return nil
}

func (a *app) runSnapshotShow(cmd *cobra.Command, args []string) error {
	if _, err := a.formatter(); err != nil {
		return err
	}
	st, err := a.snapshots()
	if err != nil {
		return err
	}
	snap, err := st.Get(args[0])
	if err != nil {
		return err
	}

	r := &output.Result{}
	for _, s := range snap.Schemes {
		r.Schemes = append(r.Schemes, output.SchemeReport{
			Scheme:   s.Scheme,
			Active:   s.Scheme.GUID == snap.Active,
			Settings: s.Settings,
		})
	}
	return a.render(r)
}

func (a *app) runSnapshotDiff(cmd *cobra.Command, args []string) error {
	st, err := a.snapshots()
	if err != nil {
		return err
	}
	from, err := st.Get(args[0])
	if err != nil {
		return err
	}

	var to *snapshot.Snapshot
	if len(args) == 2 {
		if to, err = st.Get(args[1]); err != nil {
			return err
		}
	} else {
		e, err := a.enumerator()
		if err != nil {
			return err
		}
		to = snapshot.Capture(e, "live")
	}

	diffs := snapshot.Diff(from, to)
	if from.Active != to.Active {
		a.printInfo("Active profile: %s -> %s", from.Active, to.Active)
	}
	if len(diffs) == 0 {
		a.printInfo("No differences.")
		return nil
	}

	w := a.out
	fmt.Fprintf(w, "%-8s  %-20s  %-40s  %-4s  %-10s  %s\n", "KIND", "PROFILE", "SETTING", "RAIL", "FROM", "TO")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, d := range diffs {
		fmt.Fprintf(w, "%-8s  %-20s  %-40s  %-4s  %-10s  %s\n",
			d.Kind,
			truncateString(d.SchemeName, 20),
			truncateString(d.SettingName, 40),
			d.Rail,
			orDash(d.From),
			orDash(d.To),
		)
	}
	a.printInfo("\n%d %s.", len(diffs), plural(len(diffs), "difference", "differences"))
	return nil
}

func (a *app) runSnapshotRestore(cmd *cobra.Command, args []string) error {
	st, err := a.snapshots()
	if err != nil {
		return err
	}
	snap, err := st.Get(args[0])
	if err != nil {
		return err
	}
	e, err := a.enumerator()
	if err != nil {
		return err
	}
	acc, err := a.accessor()
	if err != nil {
		return err
	}

	applied, err := snapshot.Restore(acc, snapshot.Capture(e, ""), snap)
	if errors.Is(err, snapshot.ErrNothingToRestore) {
		a.printInfo("Settings already match snapshot %s.", snapshotLabel(snap.Summary()))
		return nil
	}
	a.journal(history.OpRestore, snap.ID, applied)

	succeeded := 0
	for _, c := range applied {
		if c.Applied() {
			succeeded++
		}
	}
	a.printInfo("Restored %d of %d %s from snapshot %s.",
		succeeded, len(applied), plural(len(applied), "value", "values"), snapshotLabel(snap.Summary()))
	if err != nil {
		a.printWarning("%v", err)
	}
	return nil
}

func (a *app) runSnapshotDelete(cmd *cobra.Command, args []string) error {
	st, err := a.snapshots()
	if err != nil {
		return err
	}
	id, err := st.Delete(args[0])
	if err != nil {
		return err
	}
	a.printInfo("Deleted snapshot %s.", id)
	return nil
}

func snapshotLabel(s snapshot.Summary) string {
	if s.Name == "" {
		return s.ID
	}
	return fmt.Sprintf("%q (%s)", s.Name, s.ID[:8])
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
