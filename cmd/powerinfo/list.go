package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/output"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [profile]",
		Short: "List power profiles, or every setting of one profile",
		Long: `Without arguments, list every registered power profile in the order the
operating system reports them. With a profile name, list all of its settings
with their AC and DC values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runList,
	}
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	if _, err := a.formatter(); err != nil {
		return err
	}
	e, err := a.enumerator()
	if err != nil {
		a.printError("%v", err)
		return nil
	}

	var active types.GUID
	if act, err := e.ActiveScheme(); err == nil {
		active = act.Scheme.GUID
	}
	isActive := func(s types.Scheme) bool { return !active.IsZero() && s.GUID == active }

	r := &output.Result{}
	if len(args) == 0 {
		for s := range e.Schemes() {
			r.Schemes = append(r.Schemes, output.SchemeReport{Scheme: s, Active: isActive(s)})
		}
		return a.renderList(r)
	}

	for s := range e.Schemes() {
		if s.Name != args[0] {
			continue
		}
		r.Schemes = append(r.Schemes, output.SchemeReport{
			Scheme:   s,
			Active:   isActive(s),
			Settings: e.ListSettings(s),
		})
		break
	}
	if len(r.Schemes) == 0 {
		a.printError("%v: %q", scheme.ErrSchemeNotFound, args[0])
		return nil
	}
	return a.renderList(r)
}

func (a *app) renderList(r *output.Result) error {
	if err := a.render(r); err != nil {
		return fmt.Errorf("writing list: %w", err)
	}
	return nil
}

func (a *app) newActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active power profile",
		Long:  `Show the active power profile with its minimum and maximum processor state.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.formatter(); err != nil {
				return err
			}
			e, err := a.enumerator()
			if err != nil {
				a.printError("%v", err)
				return nil
			}
			r := &output.Result{ActiveRequested: true, ShowThrottle: true}
			a.fillActive(e, r)
			return a.renderList(r)
		},
	}
}

func (a *app) newCoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cores",
		Short: "Show performance and efficiency core counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.formatter(); err != nil {
				return err
			}
			return a.renderList(&output.Result{Cores: output.NewCoreReport(a.cores())})
		},
	}
}
