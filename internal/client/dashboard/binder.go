package dashboard

import "github.com/dmitrijs2005/duemate/internal/client/models"

// Binder resolves user commands against one rendered View. Build a new one
// after every render; it never looks at controller state.
type Binder struct {
	rows       map[models.ID]Row
	prev, next *PageButton
	totalPages int
}

func Bind(v View) *Binder {
	b := &Binder{rows: make(map[models.ID]Row, len(v.Rows))}
	for _, r := range v.Rows {
		if r.Placeholder {
			continue
		}
		b.rows[r.ID] = r
	}
	if p := v.Pagination; p != nil {
		b.prev, b.next = p.Prev, p.Next
		b.totalPages = p.TotalPages
	}
	return b
}

func (b *Binder) Row(id models.ID) (Row, bool) {
	r, ok := b.rows[id]
	return r, ok
}

// Action returns the action of kind on row id, if that row offers it.
func (b *Binder) Action(id models.ID, kind ActionKind) (Action, bool) {
	r, ok := b.rows[id]
	if !ok {
		return Action{}, false
	}
	for _, a := range r.Actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return Action{}, false
}

// Prev is the target of the "Previous" button, when rendered.
func (b *Binder) Prev() (int, bool) {
	if b.prev == nil {
		return 0, false
	}
	return b.prev.Page, true
}

func (b *Binder) Next() (int, bool) {
	if b.next == nil {
		return 0, false
	}
	return b.next.Page, true
}

// Jump validates a direct page number against the rendered page count.
func (b *Binder) Jump(page int) (int, bool) {
	if page < 1 || page > b.totalPages {
		return 0, false
	}
	return page, true
}

// Len is the number of actionable rows.
func (b *Binder) Len() int { return len(b.rows) }
