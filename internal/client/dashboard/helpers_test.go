package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type tokens string

func (t tokens) Token(context.Context) (string, error) {
	if t == "" {
		return "", common.ErrNotAuthenticated
	}
	return string(t), nil
}

type statusUpdate struct {
	ID     models.ID
	Status models.Status
}

// fakePayments records calls. listFn, when set, answers List.
type fakePayments struct {
	mu sync.Mutex

	listFn func(q models.Query) (*models.PaymentsPage, error)
	err    error

	queries []models.Query
	created []models.NewPayment
	updated []statusUpdate
	deleted []models.ID
}

func (f *fakePayments) List(_ context.Context, q models.Query) (*models.PaymentsPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return &models.PaymentsPage{}, nil
	}
	return fn(q)
}

func (f *fakePayments) Create(_ context.Context, p models.NewPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return f.err
}

func (f *fakePayments) UpdateStatus(_ context.Context, id models.ID, st models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, statusUpdate{id, st})
	return f.err
}

func (f *fakePayments) Delete(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakePayments) Queries() []models.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Query(nil), f.queries...)
}

func (f *fakePayments) lastQuery() models.Query {
	q := f.Queries()
	if len(q) == 0 {
		return models.Query{}
	}
	return q[len(q)-1]
}

func newTestController(p *fakePayments, tok string) *Controller {
	return NewController(p, tokens(tok), language.AmericanEnglish, logging.Discard())
}

// pageOf builds a list result of n payments on page out of total pages.
func pageOf(page, total, n int) *models.PaymentsPage {
	ps := make([]models.Payment, 0, n)
	for i := 0; i < n; i++ {
		id := (page-1)*10 + i + 1
		ps = append(ps, models.Payment{
			ID:       models.ID(fmt.Sprint(id)),
			Name:     fmt.Sprintf("Payment %d", id),
			Amount:   decimal.NewFromInt(int64(id)),
			Category: models.CategoryBills,
			Status:   models.StatusPending,
		})
	}
	p := &models.Pagination{
		Page:       page,
		PerPage:    10,
		TotalCount: total * n,
		TotalPages: total,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	return &models.PaymentsPage{Payments: ps, Pagination: p}
}

type answer bool

func (a answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }
