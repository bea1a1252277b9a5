// Package services contains the application services behind the CLI views.
// This file holds the login + OTP verification flow.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/client/session"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/logging"
)

// AuthService drives the two-step login.
//
// Contract:
//   - StartLogin: request an OTP for identifier and remember it as the
//     pending identity.
//   - VerifyOTP: exchange the OTP for an auth session; the pending identity
//     is replaced by the session atomically.
//   - Logout: forget the auth session.
//   - Whoami: the current auth session, if any.
//   - Pending: the identity awaiting verification, if any.
type AuthService interface {
	StartLogin(ctx context.Context, channel models.Channel, identifier string) (models.Identity, error)
	VerifyOTP(ctx context.Context, otp string) (models.AuthSession, error)
	Pending(ctx context.Context) (models.Identity, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (models.AuthSession, error)
}

type authService struct {
	client  client.Client
	session *session.Session
	log     logging.Logger
}

func NewAuthService(c client.Client, s *session.Session, log logging.Logger) AuthService {
	return &authService{client: c, session: s, log: log}
}

// StartLogin trims identifier and asks the server to send an OTP. The
// pending identity is stored only after the server accepted the request.
func (a *authService) StartLogin(ctx context.Context, channel models.Channel, identifier string) (models.Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.Identity{}, common.ErrEmptyIdentifier
	}
	if _, err := models.ParseChannel(string(channel)); err != nil {
		return models.Identity{}, err
	}

	id := models.Identity{Identifier: identifier, Channel: channel}
	if err := a.client.Login(ctx, id); err != nil {
		a.log.Warn(ctx, "login request failed", "channel", channel, "error", err)
		return models.Identity{}, fmt.Errorf("login: %w", err)
	}

	if err := a.session.SetPendingIdentity(ctx, id); err != nil {
		return models.Identity{}, fmt.Errorf("save pending identity: %w", err)
	}
	a.log.Info(ctx, "otp requested", "channel", channel)
	return id, nil
}

// VerifyOTP checks the local preconditions before any network call: a
// non-empty code and a pending identity. On failure the pending identity is
// kept so the user can retry.
func (a *authService) VerifyOTP(ctx context.Context, otp string) (models.AuthSession, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return models.AuthSession{}, common.ErrEmptyOTP
	}

	id, err := a.session.PendingIdentity(ctx)
	if err != nil {
		return models.AuthSession{}, err
	}

	auth, err := a.client.VerifyOTP(ctx, id, otp)
	if err != nil {
		a.log.Warn(ctx, "otp verification failed", "channel", id.Channel, "error", err)
		return models.AuthSession{}, fmt.Errorf("verify otp: %w", err)
	}

	if err := a.session.Authenticate(ctx, auth); err != nil {
		return models.AuthSession{}, fmt.Errorf("save auth session: %w", err)
	}
	a.log.Info(ctx, "signed in", "user_id", auth.UserID)
	return auth, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) Pending(ctx context.Context) (models.Identity, error) {
	return a.session.PendingIdentity(ctx)
}

func (a *authService) Whoami(ctx context.Context) (models.AuthSession, error) {
	return a.session.Auth(ctx)
}

// LoginMessage is the text shown when StartLogin fails.
func LoginMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrEmptyIdentifier):
		return "Please enter your email or phone number."
	case client.IsUnavailable(err):
		return "Server error"
	}
	return client.MessageOr(err, "Error")
}

// VerifyMessage is the text shown when VerifyOTP fails.
func VerifyMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrEmptyOTP):
		return "Please enter the OTP."
	case errors.Is(err, common.ErrNoPendingIdentity):
		return "Missing login info. Go back and try again."
	case client.IsUnavailable(err):
		return "Server error. Please try again later."
	}
	return client.MessageOr(err, "Verification failed.")
}
