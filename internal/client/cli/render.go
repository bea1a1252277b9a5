package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/duemate/internal/client/dashboard"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/fatih/color"
)

var badgeColors = map[models.Status]*color.Color{
	models.StatusPending:   color.New(color.FgYellow),
	models.StatusPaid:      color.New(color.FgGreen),
	models.StatusOverdue:   color.New(color.FgRed, color.Bold),
	models.StatusCancelled: color.New(color.Faint),
}

var errorColor = color.New(color.FgRed)

// render prints the dashboard view, rebinds commands to it and consumes the
// notice.
func (a *App) render() {
	v := a.dash.View()
	a.binder = dashboard.Bind(v)
	a.dash.DismissNotice()

	writeView(a.out, v, a.Color)
}

func writeView(w io.Writer, v dashboard.View, colored bool) {
	if v.Loading {
		fmt.Fprintln(w, "Loading...")
	}
	if v.Notice != "" {
		fmt.Fprintf(w, "! %s\n", v.Notice)
	}
	if v.Error != "" {
		fmt.Fprintln(w, paint(errorColor, "Error: "+v.Error, colored))
	}
	if line := filterLine(v.Controls); line != "" {
		fmt.Fprintln(w, line)
	}
	if v.Summary != "" {
		fmt.Fprintln(w, v.Summary)
	}

	if len(v.Rows) > 0 {
		writeTable(w, v.Rows, colored)
	}

	if p := v.Pagination; p != nil {
		fmt.Fprintln(w, paginationLine(p))
	}
}

// writeTable keeps STATUS last so colour codes do not skew tabwriter
// column widths.
func writeTable(w io.Writer, rows []dashboard.Row, colored bool) {
	if len(rows) == 1 && rows[0].Placeholder {
		fmt.Fprintln(w, rows[0].Message)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tAMOUNT\tCATEGORY\tDEADLINE\tSET TO\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Description, r.Amount, r.Category, r.Deadline,
			selectedLabel(r), badge(r.Status, colored))
	}
	_ = tw.Flush()
}

func selectedLabel(r dashboard.Row) string {
	for _, o := range r.Options {
		if o.Selected {
			return o.Label
		}
	}
	return ""
}

func badge(st models.Status, colored bool) string {
	return paint(badgeColors[st], string(st), colored)
}

func paint(c *color.Color, s string, colored bool) string {
	if !colored || c == nil {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func filterLine(c dashboard.Controls) string {
	var parts []string
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", c.Search))
	}
	if c.Status != "" {
		parts = append(parts, "status="+string(c.Status))
	}
	if c.Category != "" {
		parts = append(parts, "category="+string(c.Category))
	}
	if c.SortBy != "" {
		parts = append(parts, "sort="+c.SortBy)
	}
	if c.SortOrder != "" {
		parts = append(parts, "order="+c.SortOrder)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(parts, " ")
}

func paginationLine(p *dashboard.Pagination) string {
	parts := make([]string, 0, 3)
	if p.Prev != nil {
		parts = append(parts, fmt.Sprintf("[prev: %s %d]", p.Prev.Label, p.Prev.Page))
	}
	parts = append(parts, p.Label)
	if p.Next != nil {
		parts = append(parts, fmt.Sprintf("[next: %s %d]", p.Next.Label, p.Next.Page))
	}
	return strings.Join(parts, "  ")
}
