package models

import (
	"net/url"
	"strconv"
)

// PerPage is the fixed dashboard page size.
const PerPage = 10

// Query selects one page of payments. Empty optional fields are left out of
// the request entirely rather than sent as empty strings.
type Query struct {
	Page      int
	PerPage   int
	Search    string
	Status    Status
	Category  Category
	SortBy    string
	SortOrder string
}

func (q Query) Values() url.Values {
	v := url.Values{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = PerPage
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	optional := []struct{ key, value string }{
		{"search", q.Search},
		{"status", string(q.Status)},
		{"category", string(q.Category)},
		{"sort_by", q.SortBy},
		{"sort_order", q.SortOrder},
	}
	for _, o := range optional {
		if o.value != "" {
			v.Set(o.key, o.value)
		}
	}
	return v
}

// Pagination is the server-computed page descriptor.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
	PrevPage   *int `json:"prev_page"`
	NextPage   *int `json:"next_page"`
}

// PaymentsPage is the data part of a successful list response.
type PaymentsPage struct {
	Payments   []Payment   `json:"payments"`
	Pagination *Pagination `json:"pagination"`
}

// Sort fields and orders the payments endpoint accepts.
const (
	SortByDeadline = "deadline"
	SortAsc        = "asc"
	SortDesc       = "desc"
)

var SortFields = []string{SortByDeadline, "amount", "payment_name", "status", "category"}

func ValidSortField(s string) bool {
	for _, f := range SortFields {
		if f == s {
			return true
		}
	}
	return false
}

func ValidSortOrder(s string) bool {
	return s == SortAsc || s == SortDesc
}
