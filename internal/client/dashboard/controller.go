// Package dashboard holds the payments dashboard: its state, the controller
// that drives loads and row actions, and a pure renderer with a binder that
// the CLI uses to resolve commands against what was last shown.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/client/services"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// User-facing texts.
const (
	MsgLoginRequired    = "Please log in."
	MsgLoginFirst       = "Please login first to view payments"
	MsgTokenMissing     = "Auth token missing"
	MsgActionNoToken    = "Auth token missing!"
	MsgLoadFailed       = "Failed to load payments"
	MsgServerError      = "Server error"
	MsgStatusUpdated    = "Status updated!"
	MsgUpdateFailed     = "Failed to update status"
	MsgUpdateError      = "Error updating status"
	MsgDeletePrompt     = "Are you sure you want to delete this payment?"
	MsgDeleted          = "Payment deleted successfully"
	MsgDeleteFailed     = "Failed to delete payment"
	MsgDeleteError      = "Error deleting payment"
	MsgPaymentAdded     = "Payment added successfully!"
	MsgAddFailed        = "Failed to add payment"
	MsgAddError         = "Server error while adding payment"
	MsgInvalidAmount    = "Amount must be a number"
	msgMissingFieldsFmt = "Please fill in: %s"
)

// TokenSource is the part of the session the dashboard reads.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Form is the add-payment form. Fields are trimmed and checked for presence
// only; the server judges the values and its message is what the user sees.
type Form struct {
	Name        string `validate:"required"`
	Description string
	Amount      string `validate:"required"`
	Category    string `validate:"required"`
	Deadline    string `validate:"required"`
	Status      string `validate:"required"`
}

// State is everything Render needs.
type State struct {
	Loading  bool
	Loaded   bool
	Error    string
	Notice   string
	Controls Controls

	Page       int
	Payments   []models.Payment
	Pagination *models.Pagination

	// Selected holds each row's status selector value by record id.
	Selected map[models.ID]models.Status
}

// Controller is safe for concurrent use. Loads are numbered; a result is
// applied only if no later load has been started since.
type Controller struct {
	payments services.PaymentService
	tokens   TokenSource
	locale   language.Tag
	log      logging.Logger
	validate *validator.Validate

	seq atomic.Uint64

	mu    sync.Mutex
	state State
}

func NewController(payments services.PaymentService, tokens TokenSource, locale language.Tag, log logging.Logger) *Controller {
	return &Controller{
		payments: payments,
		tokens:   tokens,
		locale:   locale,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		state:    State{Page: 1, Selected: map[models.ID]models.Status{}},
	}
}

// View renders the current state.
func (c *Controller) View() View {
	return Render(c.Snapshot(), c.locale)
}

// Snapshot returns a copy of the state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Payments = append([]models.Payment(nil), c.state.Payments...)
	s.Selected = make(map[models.ID]models.Status, len(c.state.Selected))
	for k, v := range c.state.Selected {
		s.Selected[k] = v
	}
	if c.state.Pagination != nil {
		p := *c.state.Pagination
		s.Pagination = &p
	}
	return s
}

// DismissNotice clears the one-shot notice after it was shown.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	c.state.Notice = ""
	c.mu.Unlock()
}

func (c *Controller) setNotice(msg string) {
	c.mu.Lock()
	c.state.Notice = msg
	c.mu.Unlock()
}

func (c *Controller) hasToken(ctx context.Context) bool {
	_, err := c.tokens.Token(ctx)
	if err != nil && !errors.Is(err, common.ErrNotAuthenticated) {
		c.log.Error(ctx, "read auth token", "error", err)
	}
	return err == nil
}

// Open handles the initial page load.
func (c *Controller) Open(ctx context.Context) {
	if !c.hasToken(ctx) {
		c.mu.Lock()
		c.state.Loading = false
		c.state.Error = MsgLoginRequired
		c.state.Notice = MsgLoginFirst
		c.mu.Unlock()
		return
	}
	c.Load(ctx, 1)
}

// Load fetches page with the current controls. Previously rendered rows
// survive a failed load.
func (c *Controller) Load(ctx context.Context, page int) {
	seq := c.seq.Add(1)

	c.mu.Lock()
	c.state.Loading = true
	c.state.Error = ""
	q := c.state.Controls.Query(page)
	c.mu.Unlock()

	var (
		result *models.PaymentsPage
		err    error
	)
	defer func() { c.apply(ctx, seq, q, result, err) }()

	if !c.hasToken(ctx) {
		err = common.ErrNotAuthenticated
		return
	}
	result, err = c.payments.List(ctx, q)
}

func (c *Controller) apply(ctx context.Context, seq uint64, q models.Query, result *models.PaymentsPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if latest := c.seq.Load(); seq != latest {
		c.log.Debug(ctx, "discarding stale payments load", "seq", seq, "latest", latest, "page", q.Page)
		return
	}
	c.state.Loading = false

	if err != nil {
		c.state.Error = loadMessage(err)
		c.log.Warn(ctx, "load payments failed", "page", q.Page, "error", err)
		return
	}
	if result == nil {
		result = &models.PaymentsPage{}
	}

	c.state.Loaded = true
	c.state.Page = q.Page
	c.state.Payments = result.Payments
	if result.Pagination != nil {
		c.state.Page = result.Pagination.Page
	}
	c.state.Pagination = result.Pagination
	c.state.Selected = make(map[models.ID]models.Status, len(result.Payments))
	for _, p := range result.Payments {
		c.state.Selected[p.ID] = p.Status
	}
	c.log.Debug(ctx, "payments loaded", "page", q.Page, "rows", len(result.Payments))
}

func loadMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return MsgTokenMissing
	case client.IsUnavailable(err):
		return MsgServerError
	}
	return client.MessageOr(err, MsgLoadFailed)
}

// Reload fetches the current page again.
func (c *Controller) Reload(ctx context.Context) {
	c.Load(ctx, c.currentPage())
}

func (c *Controller) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Page
}

func (c *Controller) updateControls(ctx context.Context, fn func(*Controls)) {
	c.mu.Lock()
	fn(&c.state.Controls)
	c.mu.Unlock()
	c.Load(ctx, 1)
}

func (c *Controller) SetSearch(ctx context.Context, search string) {
	c.updateControls(ctx, func(ct *Controls) { ct.Search = strings.TrimSpace(search) })
}

// SetStatus filters by status; "" shows all.
func (c *Controller) SetStatus(ctx context.Context, status models.Status) error {
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	c.updateControls(ctx, func(ct *Controls) { ct.Status = status })
	return nil
}

// SetCategory filters by category; "" shows all.
func (c *Controller) SetCategory(ctx context.Context, category models.Category) error {
	if category != "" && !validCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	c.updateControls(ctx, func(ct *Controls) { ct.Category = category })
	return nil
}

func (c *Controller) SetSortBy(ctx context.Context, field string) error {
	if field != "" && !models.ValidSortField(field) {
		return fmt.Errorf("cannot sort by %q", field)
	}
	c.updateControls(ctx, func(ct *Controls) { ct.SortBy = field })
	return nil
}

func (c *Controller) SetSortOrder(ctx context.Context, order string) error {
	if order != "" && !models.ValidSortOrder(order) {
		return fmt.Errorf("unknown sort order %q", order)
	}
	c.updateControls(ctx, func(ct *Controls) { ct.SortOrder = order })
	return nil
}

func (c *Controller) ClearFilters(ctx context.Context) {
	c.updateControls(ctx, func(ct *Controls) { *ct = ClearedControls() })
}

func validCategory(cat models.Category) bool {
	for _, v := range models.Categories {
		if v == cat {
			return true
		}
	}
	return false
}

// Select sets the status selector of a row on the current page.
func (c *Controller) Select(id models.ID, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.Selected[id]; !ok {
		return fmt.Errorf("payment %s: %w", id, common.ErrorNotFound)
	}
	c.state.Selected[id] = status
	return nil
}

func (c *Controller) selected(id models.ID) (models.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state.Selected[id]
	return st, ok
}

// UpdateStatus sends the row's selector value and reloads the current page
// on success. The outcome is reported through the notice.
func (c *Controller) UpdateStatus(ctx context.Context, id models.ID) error {
	status, ok := c.selected(id)
	if !ok {
		return fmt.Errorf("payment %s: %w", id, common.ErrorNotFound)
	}

	err := c.payments.UpdateStatus(ctx, id, status)
	if err != nil {
		c.setNotice(actionMessage(err, MsgUpdateFailed, MsgUpdateError))
		c.log.Warn(ctx, "update status failed", "id", id, "error", err)
		return err
	}

	c.setNotice(MsgStatusUpdated)
	c.Reload(ctx)
	return nil
}

// Delete asks confirm first; a declined prompt changes nothing and returns
// common.ErrConfirmationDeclined.
func (c *Controller) Delete(ctx context.Context, id models.ID, confirm Confirmer) error {
	if !c.hasToken(ctx) {
		c.setNotice(MsgActionNoToken)
		return common.ErrNotAuthenticated
	}

	ok, err := confirm.Confirm(ctx, MsgDeletePrompt)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return common.ErrConfirmationDeclined
	}

	if err := c.payments.Delete(ctx, id); err != nil {
		c.setNotice(actionMessage(err, MsgDeleteFailed, MsgDeleteError))
		c.log.Warn(ctx, "delete payment failed", "id", id, "error", err)
		return err
	}

	c.setNotice(MsgDeleted)
	c.Reload(ctx)
	return nil
}

// Create validates and posts the form, then shows page 1.
func (c *Controller) Create(ctx context.Context, f Form) error {
	if !c.hasToken(ctx) {
		c.setNotice(MsgActionNoToken)
		return common.ErrNotAuthenticated
	}

	f = trimForm(f)
	if err := c.validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, formFieldNames[fe.Field()])
			}
			c.setNotice(fmt.Sprintf(msgMissingFieldsFmt, strings.Join(fields, ", ")))
			return fmt.Errorf("%w: %s", common.ErrMissingField, strings.Join(fields, ", "))
		}
		return err
	}

	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		c.setNotice(MsgInvalidAmount)
		return fmt.Errorf("parse amount: %w", err)
	}

	p := models.NewPayment{
		Name:        f.Name,
		Description: f.Description,
		Amount:      amount,
		Category:    models.Category(f.Category),
		Deadline:    f.Deadline,
		Status:      models.Status(f.Status),
	}
	if err := c.payments.Create(ctx, p); err != nil {
		c.setNotice(actionMessage(err, MsgAddFailed, MsgAddError))
		c.log.Warn(ctx, "create payment failed", "error", err)
		return err
	}

	c.setNotice(MsgPaymentAdded)
	c.Load(ctx, 1)
	return nil
}

var formFieldNames = map[string]string{
	"Name":     "payment_name",
	"Amount":   "amount",
	"Category": "category",
	"Deadline": "deadline",
	"Status":   "status",
}

func trimForm(f Form) Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Amount = strings.TrimSpace(f.Amount)
	f.Category = strings.TrimSpace(f.Category)
	f.Deadline = strings.TrimSpace(f.Deadline)
	f.Status = strings.TrimSpace(f.Status)
	return f
}

func actionMessage(err error, failed, unavailable string) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return MsgActionNoToken
	case client.IsUnavailable(err):
		return unavailable
	}
	return client.MessageOr(err, failed)
}
