package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = fmt.Errorf("GET /api/payments: %w: %w", common.ErrUnavailable, errors.New("connection refused"))

func TestOpen_WithoutTokenMakesNoCall(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "")

	c.Open(context.Background())

	v := c.View()
	assert.Equal(t, MsgLoginRequired, v.Error)
	assert.Equal(t, MsgLoginFirst, v.Notice)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Rows)
	assert.Empty(t, p.Queries())
}

func TestLoad_WithoutTokenMakesNoCall(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "")

	c.Load(context.Background(), 3)

	v := c.View()
	assert.Equal(t, MsgTokenMissing, v.Error)
	assert.False(t, v.Loading)
	assert.Empty(t, p.Queries())
}

func TestOpen_LoadsFirstPage(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) {
		return pageOf(q.Page, 3, 10), nil
	}}
	c := newTestController(p, "tok")

	c.Open(context.Background())

	require.Len(t, p.Queries(), 1)
	assert.Equal(t, url.Values{"page": {"1"}, "per_page": {"10"}}, p.lastQuery().Values())

	v := c.View()
	assert.Empty(t, v.Error)
	assert.Len(t, v.Rows, 10)
	require.NotNil(t, v.Pagination)
	assert.Nil(t, v.Pagination.Prev)
	assert.Equal(t, "Page 1 of 3", v.Pagination.Label)
	assert.Equal(t, &PageButton{Label: "Next", Page: 2}, v.Pagination.Next)
	assert.Equal(t, "30 payments", v.Summary)
}

func TestLoad_QueryOmitsEmptyFilters(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")
	ctx := context.Background()

	c.SetSearch(ctx, "  rent ")
	require.NoError(t, c.SetStatus(ctx, models.StatusPending))
	c.Load(ctx, 2)

	want := url.Values{
		"page":     {"2"},
		"per_page": {"10"},
		"search":   {"rent"},
		"status":   {"pending"},
	}
	if diff := cmp.Diff(want, p.lastQuery().Values()); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterChangesResetToFirstPage(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) {
		return pageOf(q.Page, 5, 10), nil
	}}
	c := newTestController(p, "tok")
	ctx := context.Background()

	steps := []struct {
		name string
		do   func()
		want url.Values
	}{
		{"search", func() { c.SetSearch(ctx, "gym") }, url.Values{"search": {"gym"}}},
		{"status", func() { require.NoError(t, c.SetStatus(ctx, models.StatusPaid)) }, url.Values{"search": {"gym"}, "status": {"paid"}}},
		{"category", func() { require.NoError(t, c.SetCategory(ctx, models.CategoryLoan)) }, url.Values{"search": {"gym"}, "status": {"paid"}, "category": {"loan"}}},
		{"sort by", func() { require.NoError(t, c.SetSortBy(ctx, "amount")) }, url.Values{"search": {"gym"}, "status": {"paid"}, "category": {"loan"}, "sort_by": {"amount"}}},
		{"sort order", func() { require.NoError(t, c.SetSortOrder(ctx, "desc")) }, url.Values{"search": {"gym"}, "status": {"paid"}, "category": {"loan"}, "sort_by": {"amount"}, "sort_order": {"desc"}}},
		{"clear", func() { c.ClearFilters(ctx) }, url.Values{"sort_by": {"deadline"}, "sort_order": {"asc"}}},
	}

	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			c.Load(ctx, 4)
			require.Equal(t, 4, c.Snapshot().Page)

			s.do()

			want := url.Values{"page": {"1"}, "per_page": {"10"}}
			for k, v := range s.want {
				want[k] = v
			}
			assert.Equal(t, want, p.lastQuery().Values())
			assert.Equal(t, 1, c.Snapshot().Page)
		})
	}
}

func TestSetters_RejectUnknownValues(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")
	ctx := context.Background()

	assert.Error(t, c.SetStatus(ctx, "late"))
	assert.Error(t, c.SetCategory(ctx, "food"))
	assert.Error(t, c.SetSortBy(ctx, "name"))
	assert.Error(t, c.SetSortOrder(ctx, "up"))
	assert.Empty(t, p.Queries())

	require.NoError(t, c.SetStatus(ctx, ""))
	assert.Len(t, p.Queries(), 1)
}

func TestLoad_FailureKeepsRows(t *testing.T) {
	fail := errors.New("unused")
	p := &fakePayments{}
	p.listFn = func(q models.Query) (*models.PaymentsPage, error) {
		if fail != nil && q.Page == 2 {
			return nil, fail
		}
		return pageOf(q.Page, 2, 3), nil
	}
	c := newTestController(p, "tok")
	ctx := context.Background()

	c.Load(ctx, 1)
	before := c.View().Rows
	require.Len(t, before, 3)

	cases := []struct {
		err  error
		want string
	}{
		{&client.ResponseError{StatusCode: 400, Message: "Invalid filter"}, "Invalid filter"},
		{&client.ResponseError{StatusCode: 500}, MsgLoadFailed},
		{errUnavailable, MsgServerError},
		{common.ErrNotAuthenticated, MsgTokenMissing},
	}
	for _, tc := range cases {
		fail = tc.err
		c.Load(ctx, 2)

		v := c.View()
		assert.Equal(t, tc.want, v.Error)
		assert.False(t, v.Loading)
		assert.Equal(t, before, v.Rows)
		assert.Equal(t, 1, c.Snapshot().Page)
	}

	fail = nil
	c.Load(ctx, 2)
	assert.Empty(t, c.View().Error)
}

func TestLoad_DiscardsStaleResult(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) {
		if q.Search == "slow" {
			close(slowStarted)
			<-releaseSlow
			return pageOf(1, 1, 7), nil
		}
		return pageOf(1, 1, 2), nil
	}}
	c := newTestController(p, "tok")
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SetSearch(ctx, "slow")
	}()
	<-slowStarted
	assert.True(t, c.View().Loading)

	c.SetSearch(ctx, "fast")
	assert.Len(t, c.View().Rows, 2)

	close(releaseSlow)
	wg.Wait()

	v := c.View()
	assert.Len(t, v.Rows, 2)
	assert.False(t, v.Loading)
}

func TestLoad_StaleFailureDoesNotClobber(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) {
		if q.Page == 9 {
			close(slowStarted)
			<-releaseSlow
			return nil, errUnavailable
		}
		return pageOf(q.Page, 3, 1), nil
	}}
	c := newTestController(p, "tok")
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Load(ctx, 9)
	}()
	<-slowStarted
	c.Load(ctx, 2)
	close(releaseSlow)
	<-done

	v := c.View()
	assert.Empty(t, v.Error)
	assert.Equal(t, "Page 2 of 3", v.Pagination.Label)
}

func TestSelectAndUpdateStatus_ReloadsCurrentPage(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) {
		return pageOf(q.Page, 3, 2), nil
	}}
	c := newTestController(p, "tok")
	ctx := context.Background()
	c.Load(ctx, 2)

	require.NoError(t, c.Select("11", models.StatusPaid))
	require.ErrorIs(t, c.Select("999", models.StatusPaid), common.ErrorNotFound)
	require.Error(t, c.Select("11", "late"))

	row, ok := Bind(c.View()).Row("11")
	require.True(t, ok)
	for _, o := range row.Options {
		assert.Equal(t, o.Value == models.StatusPaid, o.Selected, o.Value)
	}

	require.NoError(t, c.UpdateStatus(ctx, "11"))

	assert.Equal(t, []statusUpdate{{"11", models.StatusPaid}}, p.updated)
	assert.Equal(t, MsgStatusUpdated, c.View().Notice)
	assert.Equal(t, 2, p.lastQuery().Page)
	assert.Len(t, p.Queries(), 2)
}

func TestUpdateStatus_Failures(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&client.ResponseError{StatusCode: 404, Message: "Payment not found or access denied"}, "Payment not found or access denied"},
		{&client.ResponseError{StatusCode: 500}, MsgUpdateFailed},
		{errUnavailable, MsgUpdateError},
		{common.ErrNotAuthenticated, MsgActionNoToken},
	}
	for _, tc := range cases {
		p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) { return pageOf(1, 1, 1), nil }}
		c := newTestController(p, "tok")
		ctx := context.Background()
		c.Load(ctx, 1)
		p.err = tc.err

		require.Error(t, c.UpdateStatus(ctx, "1"))
		assert.Equal(t, tc.want, c.View().Notice)
		assert.Len(t, p.Queries(), 1, "no reload after failure")
	}
}

func TestUpdateStatus_UnknownRow(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")

	require.ErrorIs(t, c.UpdateStatus(context.Background(), "5"), common.ErrorNotFound)
	assert.Empty(t, p.updated)
}

func TestDelete_DeclinedDoesNothing(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) { return pageOf(1, 1, 3), nil }}
	c := newTestController(p, "tok")
	ctx := context.Background()
	c.Load(ctx, 1)
	before := c.View()

	var prompt string
	err := c.Delete(ctx, "2", ConfirmFunc(func(_ context.Context, q string) (bool, error) {
		prompt = q
		return false, nil
	}))

	require.ErrorIs(t, err, common.ErrConfirmationDeclined)
	assert.Equal(t, MsgDeletePrompt, prompt)
	assert.Empty(t, p.deleted)
	assert.Len(t, p.Queries(), 1)
	assert.Equal(t, before, c.View())
}

func TestDelete_ConfirmedReloads(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) { return pageOf(q.Page, 2, 3), nil }}
	c := newTestController(p, "tok")
	ctx := context.Background()
	c.Load(ctx, 2)

	require.NoError(t, c.Delete(ctx, "11", answer(true)))
	assert.Equal(t, []models.ID{"11"}, p.deleted)
	assert.Equal(t, MsgDeleted, c.View().Notice)
	assert.Equal(t, 2, p.lastQuery().Page)

	c.DismissNotice()
	assert.Empty(t, c.View().Notice)
}

func TestDelete_Failures(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		p := &fakePayments{}
		c := newTestController(p, "")
		asked := false
		err := c.Delete(context.Background(), "1", ConfirmFunc(func(context.Context, string) (bool, error) {
			asked = true
			return true, nil
		}))
		require.ErrorIs(t, err, common.ErrNotAuthenticated)
		assert.False(t, asked)
		assert.Equal(t, MsgActionNoToken, c.View().Notice)
	})

	t.Run("server", func(t *testing.T) {
		p := &fakePayments{err: &client.ResponseError{StatusCode: 500}}
		c := newTestController(p, "tok")
		require.Error(t, c.Delete(context.Background(), "1", answer(true)))
		assert.Equal(t, MsgDeleteFailed, c.View().Notice)
		assert.Empty(t, p.Queries())
	})

	t.Run("transport", func(t *testing.T) {
		p := &fakePayments{err: errUnavailable}
		c := newTestController(p, "tok")
		require.Error(t, c.Delete(context.Background(), "1", answer(true)))
		assert.Equal(t, MsgDeleteError, c.View().Notice)
	})

	t.Run("prompt error", func(t *testing.T) {
		p := &fakePayments{}
		c := newTestController(p, "tok")
		err := c.Delete(context.Background(), "1", ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, context.Canceled
		}))
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, p.deleted)
	})
}

func validForm() Form {
	return Form{
		Name:     " Rent ",
		Amount:   "1200.50",
		Category: "bills",
		Deadline: "2025-03-01",
		Status:   "pending",
	}
}

func TestCreate_PostsAndShowsFirstPage(t *testing.T) {
	p := &fakePayments{listFn: func(q models.Query) (*models.PaymentsPage, error) { return pageOf(q.Page, 3, 1), nil }}
	c := newTestController(p, "tok")
	ctx := context.Background()
	c.Load(ctx, 3)

	require.NoError(t, c.Create(ctx, validForm()))

	require.Len(t, p.created, 1)
	got := p.created[0]
	assert.Equal(t, "Rent", got.Name)
	assert.Empty(t, got.Description)
	assert.True(t, decimal.RequireFromString("1200.5").Equal(got.Amount))
	assert.Equal(t, models.CategoryBills, got.Category)
	assert.Equal(t, "2025-03-01", got.Deadline)
	assert.Equal(t, models.StatusPending, got.Status)

	assert.Equal(t, MsgPaymentAdded, c.View().Notice)
	assert.Equal(t, 1, p.lastQuery().Page)
}

func TestCreate_PassesValuesThroughUnjudged(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")

	f := validForm()
	f.Deadline = " 2025-03-01T09:00:00 "
	f.Category = "groceries"

	require.NoError(t, c.Create(context.Background(), f))

	require.Len(t, p.created, 1)
	assert.Equal(t, "2025-03-01T09:00:00", p.created[0].Deadline)
	assert.Equal(t, models.Category("groceries"), p.created[0].Category)
	assert.Equal(t, MsgPaymentAdded, c.View().Notice)
}

func TestCreate_RequiredFields(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")

	f := validForm()
	f.Name = "  "
	f.Deadline = ""

	err := c.Create(context.Background(), f)
	require.ErrorIs(t, err, common.ErrMissingField)
	assert.Equal(t, "Please fill in: payment_name, deadline", c.View().Notice)
	assert.Empty(t, p.created)
}

func TestCreate_InvalidAmount(t *testing.T) {
	p := &fakePayments{}
	c := newTestController(p, "tok")

	f := validForm()
	f.Amount = "twelve"

	require.Error(t, c.Create(context.Background(), f))
	assert.Equal(t, MsgInvalidAmount, c.View().Notice)
	assert.Empty(t, p.created)
}

func TestCreate_Failures(t *testing.T) {
	cases := []struct {
		token string
		err   error
		want  string
	}{
		{"", nil, MsgActionNoToken},
		{"tok", &client.ResponseError{StatusCode: 400}, MsgAddFailed},
		{"tok", &client.ResponseError{StatusCode: 400, Message: "Deadline is invalid"}, "Deadline is invalid"},
		{"tok", errUnavailable, MsgAddError},
	}
	for _, tc := range cases {
		p := &fakePayments{err: tc.err}
		c := newTestController(p, tc.token)

		require.Error(t, c.Create(context.Background(), validForm()))
		assert.Equal(t, tc.want, c.View().Notice)
		assert.Empty(t, p.Queries())
	}
}
