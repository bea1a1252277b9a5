// Package session owns the client's persisted identity: the login waiting for
// OTP verification and the auth session that follows it. Controllers receive
// a *Session at construction instead of reading ambient state.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/dbx"
)

type Session struct {
	db *sql.DB
}

func New(db *sql.DB) *Session {
	return &Session{db: db}
}

func (s *Session) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// PendingIdentity returns the login awaiting verification, or
// common.ErrNoPendingIdentity when none is stored.
func (s *Session) PendingIdentity(ctx context.Context) (models.Identity, error) {
	repo := s.repo()

	identifier, err := lookup(ctx, repo, KeyIdentifier)
	if err != nil {
		return models.Identity{}, err
	}
	channel, err := lookup(ctx, repo, KeyChannel)
	if err != nil {
		return models.Identity{}, err
	}
	if identifier == "" || channel == "" {
		return models.Identity{}, common.ErrNoPendingIdentity
	}
	ch, err := models.ParseChannel(channel)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", common.ErrNoPendingIdentity, err)
	}
	return models.Identity{Identifier: identifier, Channel: ch}, nil
}

// SetPendingIdentity overwrites any previous pending identity.
func (s *Session) SetPendingIdentity(ctx context.Context, id models.Identity) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyIdentifier, id.Identifier); err != nil {
			return err
		}
		return repo.Set(ctx, KeyChannel, string(id.Channel))
	})
}

// Authenticate swaps the pending identity for an auth session in a single
// transaction, so the two never coexist.
func (s *Session) Authenticate(ctx context.Context, auth models.AuthSession) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, KeyIdentifier); err != nil {
			return err
		}
		if err := repo.Delete(ctx, KeyChannel); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyToken, auth.Token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUserID, auth.UserID.String())
	})
}

// Token returns the bearer token, or common.ErrNotAuthenticated.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := lookup(ctx, s.repo(), KeyToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", common.ErrNotAuthenticated
	}
	return token, nil
}

// Auth returns the full auth session, or common.ErrNotAuthenticated.
func (s *Session) Auth(ctx context.Context) (models.AuthSession, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return models.AuthSession{}, err
	}
	userID, err := lookup(ctx, s.repo(), KeyUserID)
	if err != nil {
		return models.AuthSession{}, err
	}
	return models.AuthSession{Token: token, UserID: models.ID(userID)}, nil
}

// Logout removes the auth session. A pending identity, if any, survives.
func (s *Session) Logout(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range []string{KeyToken, KeyUserID, legacyTokenKey} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// lookup maps a missing key to "" so callers can decide which sentinel fits.
func lookup(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	return v, err
}
