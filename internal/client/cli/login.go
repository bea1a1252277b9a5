package cli

import (
	"context"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/client/services"
	"github.com/dmitrijs2005/duemate/internal/client/session"
)

// now is a test seam for token expiry display.
var now = time.Now

// Email starts a login over the email channel.
func (a *App) Email(ctx context.Context, args []string) error {
	identifier, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	return a.startLogin(ctx, models.ChannelEmail, identifier)
}

// Phone starts a login over the SMS channel.
func (a *App) Phone(ctx context.Context, args []string) error {
	identifier, err := a.argOrPrompt(args, "Enter phone number")
	if err != nil {
		return err
	}
	return a.startLogin(ctx, models.ChannelPhone, identifier)
}

// Login guesses the channel: a well-formed address goes to email, anything
// else is treated as a phone number.
func (a *App) Login(ctx context.Context, args []string) error {
	identifier, err := a.argOrPrompt(args, "Enter email or phone number")
	if err != nil {
		return err
	}
	return a.startLogin(ctx, guessChannel(identifier), identifier)
}

func guessChannel(identifier string) models.Channel {
	if checkmail.ValidateFormat(strings.TrimSpace(identifier)) == nil {
		return models.ChannelEmail
	}
	return models.ChannelPhone
}

func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if v := strings.Join(args, " "); v != "" {
		return v, nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) startLogin(ctx context.Context, ch models.Channel, identifier string) error {
	id, err := a.auth.StartLogin(ctx, ch, identifier)
	if err != nil {
		a.println(services.LoginMessage(err))
		return err
	}

	a.printf("OTP sent to %s. Enter it with: verify [code]\n", id.Identifier)
	a.view = ViewVerify
	return nil
}

// Verify submits the OTP. Without an argument the code is read without echo
// when input is a terminal.
func (a *App) Verify(ctx context.Context, args []string) error {
	otp := strings.Join(args, "")
	if otp == "" {
		var err error
		otp, err = GetSecret(a.reader, a.InputFd, "Enter OTP", a.out)
		if err != nil {
			return err
		}
	}

	if _, err := a.auth.VerifyOTP(ctx, otp); err != nil {
		a.println(services.VerifyMessage(err))
		return err
	}

	a.println("Verified.")
	a.openDashboard(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.println("Logout failed:", err.Error())
		return err
	}
	a.view = ViewLogin
	a.println("Logged out.")
	return nil
}

// Whoami prints the signed-in user and, for JWTs, when the token expires.
func (a *App) Whoami(ctx context.Context, _ []string) error {
	auth, err := a.auth.Whoami(ctx)
	if err != nil {
		a.println("Not logged in.")
		return err
	}

	a.printf("User %s\n", auth.UserID)
	info, err := session.InspectToken(auth.Token)
	if err != nil || info.ExpiresAt.IsZero() {
		return nil
	}
	if info.Expired(now()) {
		a.printf("Token expired at %s\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		a.printf("Token expires at %s\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}
