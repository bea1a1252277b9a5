package client

import (
	"context"

	"github.com/dmitrijs2005/duemate/internal/client/models"
)

// Client is the contract with the Duemate backend. Authenticated calls take
// the bearer token explicitly; the client keeps no session of its own.
type Client interface {
	Login(ctx context.Context, id models.Identity) error
	VerifyOTP(ctx context.Context, id models.Identity, otp string) (models.AuthSession, error)
	ListPayments(ctx context.Context, token string, q models.Query) (*models.PaymentsPage, error)
	CreatePayment(ctx context.Context, token string, p models.NewPayment) error
	UpdatePaymentStatus(ctx context.Context, token string, id models.ID, status models.Status) error
	DeletePayment(ctx context.Context, token string, id models.ID) error
}
