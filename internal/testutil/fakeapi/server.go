// Package fakeapi is an in-process stand-in for the Duemate backend, used by
// tests across the client. It follows the real API's routes, status codes
// and response shapes, issues real TOTP codes, and records every request.
package fakeapi

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pquerna/otp/totp"
)

// Request is one call the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

// Payment is the server-side record.
type Payment struct {
	ID          int
	Owner       string
	Name        string
	Description *string
	Amount      float64
	Category    string
	Deadline    time.Time
	Status      string
}

type failure struct {
	code int
	body any
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secrets  map[string]string
	users    map[string]string
	tokens   map[string]string
	payments []*Payment
	nextID   int
	nextUser int
	requests []Request
	failures map[string]failure
	hold     map[string]chan struct{}
}

// New starts a server and closes it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		secrets:  map[string]string{},
		users:    map[string]string{},
		tokens:   map[string]string{},
		failures: map[string]failure{},
		hold:     map[string]chan struct{}{},
		nextID:   1,
		nextUser: 42,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.record, s.inject)

	api := e.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/verify_otp", s.verifyOTP)

	authed := api.Group("", s.requireToken)
	authed.GET("/payments", s.listPayments)
	authed.POST("/payments", s.createPayment)
	authed.PATCH("/payment/:id/status", s.changeStatus)
	authed.DELETE("/payments/:id", s.deletePayment)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

func routeKey(method, route string) string { return method + " " + route }

// FailNext makes the next request matching method and route (an echo route
// such as "/api/payments/:id") answer with code and body.
func (s *Server) FailNext(method, route string, code int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, route)] = failure{code: code, body: body}
}

// Hold blocks the next request matching method and route until the returned
// function is called.
func (s *Server) Hold(method, route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold[routeKey(method, route)] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// OTP returns the code currently valid for identifier, or "" if no login
// was started for it.
func (s *Server) OTP(identifier string) string {
	s.mu.Lock()
	secret, ok := s.secrets[identifier]
	s.mu.Unlock()
	if !ok {
		return ""
	}
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		return ""
	}
	return code
}

// IssueToken creates a valid bearer token for userID without the OTP dance.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := uuid.NewString()
	s.tokens[tok] = userID
	return tok
}

// Grant makes token valid for userID.
func (s *Server) Grant(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
}

// Seed stores payments for owner and returns their ids.
func (s *Server) Seed(owner string, ps ...Payment) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(ps))
	for _, p := range ps {
		p := p
		p.ID = s.nextID
		p.Owner = owner
		s.nextID++
		s.payments = append(s.payments, &p)
		ids = append(ids, p.ID)
	}
	return ids
}

// Payment returns a copy of the stored record.
func (s *Server) Payment(id int) (Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			return *p, true
		}
	}
	return Payment{}, false
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		raw, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(strings.NewReader(string(raw)))

		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Header: req.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := routeKey(c.Request().Method, c.Path())

		s.mu.Lock()
		f, fail := s.failures[key]
		delete(s.failures, key)
		ch, held := s.hold[key]
		delete(s.hold, key)
		s.mu.Unlock()

		if held {
			<-ch
		}
		if fail {
			if f.body == nil {
				return c.NoContent(f.code)
			}
			if str, ok := f.body.(string); ok {
				return c.String(f.code, str)
			}
			return c.JSON(f.code, f.body)
		}
		return next(c)
	}
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": "fail", "message": msg})
}

func (s *Server) login(c echo.Context) error {
	var in struct {
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON or empty request")
	}
	identifier := in.Email
	if identifier == "" {
		identifier = in.PhoneNumber
	}
	if identifier == "" {
		return fail(c, http.StatusBadRequest, "Invalid input. Provide 'email' or 'phone_number'")
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Duemate", AccountName: identifier})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to send OTP")
	}

	s.mu.Lock()
	s.secrets[identifier] = key.Secret()
	if _, ok := s.users[identifier]; !ok {
		s.users[identifier] = strconv.Itoa(s.nextUser)
		s.nextUser++
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "OTP sent to " + identifier})
}

func (s *Server) verifyOTP(c echo.Context) error {
	var in struct {
		OTP         string `json:"otp"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Invalid JSON"})
	}
	identifier := in.Email
	if identifier == "" {
		identifier = in.PhoneNumber
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	secret, ok := s.secrets[identifier]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "OTP session not found"})
	}
	if !totp.Validate(in.OTP, secret) {
		delete(s.secrets, identifier)
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Invalid OTP"})
	}
	delete(s.secrets, identifier)

	userID := s.users[identifier]
	tok := uuid.NewString()
	s.tokens[tok] = userID
	uid, _ := strconv.Atoi(userID)

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "access_token": tok, "user_id": uid})
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get("Authorization")
		tok, ok := strings.CutPrefix(h, "Bearer ")
		s.mu.Lock()
		user, known := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !known {
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Missing Authorization Header"})
		}
		c.Set("user", user)
		return next(c)
	}
}

func wire(p *Payment) echo.Map {
	return echo.Map{
		"id":           p.ID,
		"payment_name": p.Name,
		"description":  p.Description,
		"amount":       p.Amount,
		"category":     p.Category,
		"deadline":     p.Deadline.Format("2006-01-02T15:04:05"),
		"status":       p.Status,
	}
}

func (s *Server) listPayments(c echo.Context) error {
	user := c.Get("user").(string)
	q := c.QueryParams()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = 10
	}
	perPage = min(perPage, 100)

	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	var rows []*Payment
	for _, p := range s.payments {
		if p.Owner != user {
			continue
		}
		if v := q.Get("status"); v != "" && p.Status != v {
			continue
		}
		if v := q.Get("category"); v != "" && p.Category != v {
			continue
		}
		if search != "" {
			desc := ""
			if p.Description != nil {
				desc = *p.Description
			}
			if !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(desc), search) {
				continue
			}
		}
		cp := *p
		rows = append(rows, &cp)
	}
	s.mu.Unlock()

	less := sortFunc(q.Get("sort_by"))
	desc := strings.EqualFold(q.Get("sort_order"), "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	total := len(rows)
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	items := make([]echo.Map, 0, end-start)
	for _, p := range rows[start:end] {
		items = append(items, wire(p))
	}

	hasPrev := page > 1
	hasNext := page < pages
	var prev, next any
	if hasPrev {
		prev = page - 1
	}
	if hasNext {
		next = page + 1
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data": echo.Map{
			"payments": items,
			"pagination": echo.Map{
				"page":        page,
				"per_page":    perPage,
				"total_count": total,
				"total_pages": pages,
				"has_next":    hasNext,
				"has_prev":    hasPrev,
				"next_page":   next,
				"prev_page":   prev,
			},
		},
	})
}

func sortFunc(by string) func(a, b *Payment) bool {
	switch by {
	case "payment_name":
		return func(a, b *Payment) bool { return a.Name < b.Name }
	case "amount":
		return func(a, b *Payment) bool { return a.Amount < b.Amount }
	case "status":
		return func(a, b *Payment) bool { return a.Status < b.Status }
	case "category":
		return func(a, b *Payment) bool { return a.Category < b.Category }
	default:
		return func(a, b *Payment) bool { return a.Deadline.Before(b.Deadline) }
	}
}

var (
	validStatus   = map[string]bool{"pending": true, "paid": true, "overdue": true, "cancelled": true}
	validCategory = map[string]bool{"bills": true, "subscription": true, "loan": true, "tax": true, "other": true}
)

func (s *Server) createPayment(c echo.Context) error {
	var in struct {
		Name        string   `json:"payment_name"`
		Description *string  `json:"description"`
		Amount      *float64 `json:"amount"`
		Category    string   `json:"category"`
		Deadline    string   `json:"deadline"`
		Status      string   `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if len(in.Name) < 2 || in.Amount == nil || *in.Amount <= 0 ||
		!validCategory[in.Category] || !validStatus[in.Status] ||
		(in.Description != nil && *in.Description == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "fail", "errors": []string{"validation failed"}})
	}
	deadline, err := parseISO(in.Deadline)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "fail", "errors": []string{"deadline"}})
	}

	ids := s.Seed(c.Get("user").(string), Payment{
		Name: in.Name, Description: in.Description, Amount: *in.Amount,
		Category: in.Category, Deadline: deadline, Status: in.Status,
	})
	p, _ := s.Payment(ids[0])

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "success",
		"message": "Payment created successfully",
		"payment": wire(&p),
	})
}

// parseISO accepts what the backend's datetime field accepts: a date, a
// naive datetime or one with an offset or "Z".
func parseISO(v string) (time.Time, error) {
	var err error
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02"} {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (s *Server) find(c echo.Context) (*Payment, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, false
	}
	user := c.Get("user").(string)
	for _, p := range s.payments {
		if p.ID == id && p.Owner == user {
			return p, true
		}
	}
	return nil, false
}

func (s *Server) changeStatus(c echo.Context) error {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil || !validStatus[in.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "fail", "errors": []string{"status"}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.find(c)
	if !ok {
		return fail(c, http.StatusNotFound, "Payment not found or access denied")
	}
	p.Status = in.Status
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": wire(p)})
}

func (s *Server) deletePayment(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.find(c)
	if !ok {
		return fail(c, http.StatusNotFound, "Payment not found or access denied")
	}
	for i, q := range s.payments {
		if q == p {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			break
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Payment " + strconv.Itoa(p.ID) + " deleted successfully"})
}
