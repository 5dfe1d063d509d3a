package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/history"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Messages of the Get and Set commands.
const (
	msgSetOK     = "Set value successfully."
	msgSetFailed = "Failed to set value."
)

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <profile> <setting>",
		Aliases: []string{"Get"},
		Short:   "Print the AC and DC value of a setting",
		Long: `Print the AC (plugged in) and DC (on battery) value of one setting.

Profile and setting names must match exactly, including case. A profile or
setting without a friendly name is addressed by its GUID.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runGet,
	}
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	profile, setting := args[0], args[1]

	acc, err := a.accessor()
	if err != nil {
		a.printError("%v", err)
		for _, rail := range types.Rails {
			a.printInfo("Failed to get %s value.", rail)
		}
		return nil
	}

	for _, rail := range types.Rails {
		v, err := acc.Get(profile, setting, rail)
		if err != nil {
			a.printVerbose("get %s: %v", rail, err)
			a.printInfo("Failed to get %s value.", rail)
			continue
		}
		a.printInfo("%s value: %d", rail, v)
	}
	return nil
}

func (a *app) newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set <profile> <setting> <value>",
		Aliases: []string{"Set"},
		Short:   "Write a setting value and activate its profile",
		Long: `Write the AC and DC value of one setting, then make its profile the
active one so the new value takes effect immediately.

Value is a decimal or 0x-prefixed hexadecimal 32-bit unsigned integer.
Use --rail to write only one of the two values.`,
		Args: cobra.ExactArgs(3),
		RunE: a.runSet,
	}
	cmd.Flags().String("rail", "both", "rails to write: ac, dc or both")
	return cmd
}

// parseRails parses the --rail flag.
func parseRails(s string) ([]types.Rail, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return types.Rails, nil
	}
	r, err := types.ParseRail(s)
	if err != nil {
		return nil, err
	}
	return []types.Rail{r}, nil
}

func (a *app) runSet(cmd *cobra.Command, args []string) error {
	profile, setting := args[0], args[1]

	value, err := types.ParseValue(args[2])
	if err != nil {
		return err
	}
	railFlag, _ := cmd.Flags().GetString("rail")
	rails, err := parseRails(railFlag)
	if err != nil {
		return err
	}

	acc, err := a.accessor()
	if err != nil {
		a.printError("%v", err)
		a.printInfo(msgSetFailed)
		return nil
	}

	// Without a journal there are no old values to keep, so a single rail
	// goes through the accessor's write-then-activate path.
	if len(rails) == 1 && !a.cfg.History.Enabled {
		err := acc.Set(profile, setting, value, rails[0])
		switch {
		case err == nil:
			a.printInfo(msgSetOK)
		case errors.Is(err, scheme.ErrActivateFailed):
			a.printInfo(msgSetOK)
			a.printWarning("value written but profile %q could not be activated", profile)
		default:
			a.printVerbose("set: %v", err)
			a.printInfo(msgSetFailed)
		}
		return nil
	}

	ref, err := acc.Lookup(profile, setting)
	if err != nil {
		a.printVerbose("set: %v", err)
		a.printInfo(msgSetFailed)
		return nil
	}

	changes := make([]history.Change, 0, len(rails))
	for _, rail := range rails {
		changes = append(changes, history.Change{
			Ref:         ref,
			SchemeName:  profile,
			SettingName: setting,
			Rail:        rail,
			New:         value,
		})
	}

	applied, runErr := history.Run(acc, changes, true)
	succeeded := false
	for _, c := range applied {
		if c.Applied() {
			succeeded = true
		} else {
			a.printVerbose("set %s: %s", c.Rail, c.Error)
		}
	}

	if !succeeded {
		a.printInfo(msgSetFailed)
		return nil
	}
	a.printInfo(msgSetOK)
	if runErr != nil {
		if errors.Is(runErr, scheme.ErrActivateFailed) {
			a.printWarning("value written but profile %q could not be activated", profile)
		} else {
			a.printWarning("%v", runErr)
		}
	}
	a.journal(history.OpSet, "", applied)
	return nil
}

// journal records changes when history is enabled. Failures only warn.
func (a *app) journal(op history.OperationType, source string, changes []history.Change) {
	if !a.cfg.History.Enabled || len(changes) == 0 {
		return
	}
	j, err := history.New(a.cfg.History.Path)
	if err == nil {
		_, err = j.Record(op, source, changes)
	}
	if err != nil {
		a.printWarning("%v", fmt.Errorf("recording history: %w", err))
	}
}
