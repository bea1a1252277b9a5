// Package models defines the payment, query and session types shared by
// the API client, the session store and the dashboard.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusPaid, StatusOverdue, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Label is the capitalised form shown in status selectors.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseStatus is case-insensitive and trims surrounding space.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Category groups payments on the dashboard.
type Category string

const (
	CategoryBills        Category = "bills"
	CategorySubscription Category = "subscription"
	CategoryLoan         Category = "loan"
	CategoryTax          Category = "tax"
	CategoryOther        Category = "other"
)

var Categories = []Category{CategoryBills, CategorySubscription, CategoryLoan, CategoryTax, CategoryOther}

// Payment is one record as returned by GET /api/payments. The client only
// ever holds a read-only copy of the current page.
type Payment struct {
	ID          ID              `json:"id"`
	Name        string          `json:"payment_name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Deadline    Deadline        `json:"deadline"`
	Status      Status          `json:"status"`
}

// NewPayment is the body of POST /api/payments.
type NewPayment struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Category    Category
	Deadline    string
	Status      Status
}

// MarshalJSON sends amount as a JSON number and drops an empty description,
// which the backend would reject.
func (p NewPayment) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name        string      `json:"payment_name"`
		Description string      `json:"description,omitempty"`
		Amount      json.Number `json:"amount"`
		Category    Category    `json:"category"`
		Deadline    string      `json:"deadline"`
		Status      Status      `json:"status"`
	}
	return json.Marshal(wire{
		Name:        p.Name,
		Description: p.Description,
		Amount:      json.Number(p.Amount.String()),
		Category:    p.Category,
		Deadline:    p.Deadline,
		Status:      p.Status,
	})
}

// Deadline decodes the backend's ISO-8601 date or datetime.
type Deadline struct {
	time.Time
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised deadline %q", s)
}

func (d *Deadline) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDeadline(*s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}
