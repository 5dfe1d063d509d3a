package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/filter"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/output"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/scheme"
)

// addReportFlags adds the setting selection flags of the default report.
func (a *app) addReportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("match", "m", nil, "show settings whose name contains any of these (case-insensitive)")
	f.StringSlice("include", nil, "show only settings whose name matches a glob")
	f.StringSlice("exclude", nil, "hide settings whose name matches a glob")
	f.StringSlice("scheme", nil, "show only these profiles (exact names)")
	f.String("sort", "", "sort settings: none, name, subgroup")
	f.IntP("limit", "n", 0, "maximum settings per profile (0 = unlimited)")

	_ = a.v.BindPFlag("report.match", f.Lookup("match"))
	_ = a.v.BindPFlag("report.include", f.Lookup("include"))
	_ = a.v.BindPFlag("report.exclude", f.Lookup("exclude"))
	_ = a.v.BindPFlag("report.schemes", f.Lookup("scheme"))
	_ = a.v.BindPFlag("report.sort", f.Lookup("sort"))
	_ = a.v.BindPFlag("report.limit", f.Lookup("limit"))
}

// buildFilter creates a filter.Filter from the report configuration.
func (a *app) buildFilter() (*filter.Filter, error) {
	r := a.cfg.Report

	sortBy, err := filter.ParseSortField(r.Sort)
	if err != nil {
		return nil, err
	}

	return filter.New(
		filter.WithContains(r.Match...),
		filter.WithInclude(r.Include...),
		filter.WithExclude(r.Exclude...),
		filter.WithSchemes(r.Schemes...),
		filter.WithSortBy(sortBy),
		filter.WithLimit(r.Limit),
	)
}

// formatter returns the configured output formatter.
func (a *app) formatter() (output.Formatter, error) {
	if a.cfg.Output == "template" {
		if tmpl := a.v.GetString("template"); tmpl != "" {
			return output.NewTemplateFormatter(tmpl), nil
		}
	}
	return output.Get(a.cfg.Output)
}

// render writes r with the configured formatter. Warnings are repeated on
// stderr for the plain layout, which has no place for them.
func (a *app) render(r *output.Result) error {
	f, err := a.formatter()
	if err != nil {
		return err
	}
	if _, ok := f.(*output.PlainFormatter); ok {
		for _, c := range r.Collisions {
			a.printWarning("profile %s hidden by %s (both named %q)", c.Dropped, c.Kept, c.Name)
		}
		for _, w := range r.Warnings {
			a.printWarning("%s", w)
		}
	}
	return f.Format(a.out, r)
}

// runReport prints the default report: core types, the active profile and
// the selected settings of every profile.
func (a *app) runReport(cmd *cobra.Command, args []string) error {
	flt, err := a.buildFilter()
	if err != nil {
		return err
	}
	if _, err := a.formatter(); err != nil {
		return err
	}

	e, err := a.enumerator()
	if err != nil {
		a.printError("%v", err)
		return nil
	}

	r := &output.Result{
		Cores:           output.NewCoreReport(a.cores()),
		ActiveRequested: true,
	}
	a.fillActive(e, r)
	a.fillSchemes(e, r, flt)

	if err := a.render(r); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (a *app) fillActive(e *scheme.Enumerator, r *output.Result) {
	active, err := e.ActiveScheme()
	if err != nil {
		r.ActiveError = err.Error()
		return
	}
	r.Active = &active
}

// fillSchemes adds the schemes that pass flt keyed by display name: when two
// profiles share a name only the later one is shown and the hidden one is
// reported as a collision.
func (a *app) fillSchemes(e *scheme.Enumerator, r *output.Result, flt *filter.Filter) {
	schemes := e.ListSchemes()
	index, collisions := scheme.IndexByName(schemes)
	r.Collisions = collisions

	for _, s := range schemes {
		if index[s.Name].GUID != s.GUID || !flt.MatchScheme(s.Name) {
			continue
		}
		report := output.SchemeReport{
			Scheme:   s,
			Active:   r.Active != nil && r.Active.Scheme.GUID == s.GUID,
			Settings: flt.Apply(e.ListSettings(s)),
		}
		r.Schemes = append(r.Schemes, report)
	}
}
