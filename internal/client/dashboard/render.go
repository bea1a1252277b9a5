package dashboard

import (
	"fmt"

	"github.com/dmitrijs2005/duemate/internal/client/models"
	"golang.org/x/text/language"
)

// NoPayments is the text of the placeholder row.
const NoPayments = "No payments found."

type ActionKind string

const (
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Action is a per-row control, addressed by record id.
type Action struct {
	Kind ActionKind
	ID   models.ID
}

// Option is one entry of a row's status selector.
type Option struct {
	Value    models.Status
	Label    string
	Selected bool
}

// Row is one rendered table line. A placeholder row carries only Message.
type Row struct {
	Placeholder bool
	Message     string

	ID          models.ID
	Name        string
	Description string
	Amount      string
	Category    string
	Deadline    string
	Status      models.Status
	Options     []Option
	Actions     []Action
}

// PageButton targets a page number.
type PageButton struct {
	Label string
	Page  int
}

type Pagination struct {
	Prev  *PageButton
	Label string
	Next  *PageButton

	Page       int
	TotalPages int
}

// View is a declarative description of the dashboard. It holds no
// references back into the controller.
type View struct {
	Loading    bool
	Error      string
	Notice     string
	Summary    string
	Controls   Controls
	Rows       []Row
	Pagination *Pagination
}

// Render is a pure function of state. Rows are rebuilt in full each time.
func Render(s State, tag language.Tag) View {
	v := View{
		Loading:  s.Loading,
		Error:    s.Error,
		Notice:   s.Notice,
		Controls: s.Controls,
	}

	if s.Loaded {
		v.Rows = renderRows(s, tag)
	}
	if p := s.Pagination; p != nil {
		v.Pagination = renderPagination(*p)
		v.Summary = Summary(p.TotalCount, tag)
	}
	return v
}

func renderRows(s State, tag language.Tag) []Row {
	if len(s.Payments) == 0 {
		return []Row{{Placeholder: true, Message: NoPayments}}
	}

	rows := make([]Row, 0, len(s.Payments))
	for _, p := range s.Payments {
		selected, ok := s.Selected[p.ID]
		if !ok {
			selected = p.Status
		}

		desc := p.Description
		if desc == "" {
			desc = "-"
		}

		options := make([]Option, 0, len(models.Statuses))
		for _, st := range models.Statuses {
			options = append(options, Option{Value: st, Label: st.Label(), Selected: st == selected})
		}

		rows = append(rows, Row{
			ID:          p.ID,
			Name:        p.Name,
			Description: desc,
			Amount:      FormatAmount(p.Amount),
			Category:    string(p.Category),
			Deadline:    FormatDate(p.Deadline.Time, tag),
			Status:      p.Status,
			Options:     options,
			Actions: []Action{
				{Kind: ActionUpdate, ID: p.ID},
				{Kind: ActionDelete, ID: p.ID},
			},
		})
	}
	return rows
}

func renderPagination(p models.Pagination) *Pagination {
	out := &Pagination{
		Label:      fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages),
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
	if p.HasPrev {
		target := p.Page - 1
		if p.PrevPage != nil {
			target = *p.PrevPage
		}
		out.Prev = &PageButton{Label: "Previous", Page: target}
	}
	if p.HasNext {
		target := p.Page + 1
		if p.NextPage != nil {
			target = *p.NextPage
		}
		out.Next = &PageButton{Label: "Next", Page: target}
	}
	return out
}
