package services

import (
	"context"

	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/client/session"
)

// PaymentService is the authenticated gateway to the payments endpoints.
// Every call reads the token from the session first and returns
// common.ErrNotAuthenticated, without touching the network, when there is
// none.
type PaymentService interface {
	List(ctx context.Context, q models.Query) (*models.PaymentsPage, error)
	Create(ctx context.Context, p models.NewPayment) error
	UpdateStatus(ctx context.Context, id models.ID, status models.Status) error
	Delete(ctx context.Context, id models.ID) error
}

type paymentService struct {
	client  client.Client
	session *session.Session
}

func NewPaymentService(c client.Client, s *session.Session) PaymentService {
	return &paymentService{client: c, session: s}
}

func (s *paymentService) List(ctx context.Context, q models.Query) (*models.PaymentsPage, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListPayments(ctx, token, q)
}

func (s *paymentService) Create(ctx context.Context, p models.NewPayment) error {
	token, err := s.session.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.CreatePayment(ctx, token, p)
}

func (s *paymentService) UpdateStatus(ctx context.Context, id models.ID, status models.Status) error {
	token, err := s.session.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.UpdatePaymentStatus(ctx, token, id, status)
}

func (s *paymentService) Delete(ctx context.Context, id models.ID) error {
	token, err := s.session.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.DeletePayment(ctx, token, id)
}
