package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// PrettyFormatter renders a styled terminal report with lipgloss.
type PrettyFormatter struct{}

// Format implements Formatter.
func (f *PrettyFormatter) Format(w io.Writer, r *Result) error {
	var b strings.Builder

	if header := f.header(r); header != "" {
		b.WriteString(HeaderBox.Render(header))
		b.WriteString("\n")
	}

	for _, s := range r.Schemes {
		b.WriteString(f.scheme(s))
	}

	for _, c := range r.Collisions {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("! scheme %s hidden by %s (both named %q)", c.Dropped, c.Kept, c.Name)))
		b.WriteString("\n")
	}
	for _, warning := range r.Warnings {
		b.WriteString(WarningStyle.Render("! " + warning))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *PrettyFormatter) header(r *Result) string {
	var lines []string
	field := func(label, value string) {
		lines = append(lines, LabelStyle.Render(label+":")+" "+value)
	}

	if r.Cores != nil {
		hybrid := MutedStyle.Render("not detected")
		if r.Cores.Hybrid {
			hybrid = ActiveBadge.Render("detected")
		}
		field("Hybrid architecture", hybrid)
		field("Cores", ValueStyle.Render(fmt.Sprintf("%d performance, %d efficiency", r.Cores.Performance, r.Cores.Efficiency)))
	}

	switch {
	case r.Active != nil:
		a := r.Active
		field("Active scheme", SchemeStyle.Render(a.Scheme.Name)+" "+MutedStyle.Render(a.Scheme.GUID.String()))
		field("Processor state", ValueStyle.Render(fmt.Sprintf("min %s/%s  max %s/%s (AC/DC)",
			a.ThrottleMinAC, a.ThrottleMinDC, a.ThrottleMaxAC, a.ThrottleMaxDC)))
	case r.ActiveRequested:
		field("Active scheme", ErrorStyle.Render(ActiveNameFailure))
	}

	return strings.Join(lines, "\n")
}

func (f *PrettyFormatter) scheme(s SchemeReport) string {
	var b strings.Builder

	b.WriteString(SchemeStyle.Render(s.Scheme.Name))
	if s.Active {
		b.WriteString(" " + ActiveBadge.Render("● active"))
	}
	b.WriteString(" " + MutedStyle.Render(s.Scheme.GUID.String()))
	b.WriteString("\n")

	subgroup := ""
	for _, v := range s.Settings {
		if v.SubgroupName != subgroup {
			subgroup = v.SubgroupName
			b.WriteString("  " + SubgroupStyle.Render(subgroup) + "\n")
		}
		fmt.Fprintf(&b, "    %s  %s %s  %s %s\n",
			ValueStyle.Render(v.Name),
			LabelStyle.Render("AC"), styleValue(v.ACValue),
			LabelStyle.Render("DC"), styleValue(v.DCValue))
	}
	if len(s.Settings) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func styleValue(v string) string {
	if v == types.ValueError {
		return ErrorStyle.Render(v)
	}
	return ValueStyle.Render(v)
}

func init() {
	Register("pretty", func() Formatter { return &PrettyFormatter{} })
}

var _ Formatter = (*PrettyFormatter)(nil)
