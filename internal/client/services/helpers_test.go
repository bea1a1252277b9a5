package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/duemate/internal/client/session"
	"github.com/dmitrijs2005/duemate/internal/client/storage"
	"github.com/dmitrijs2005/duemate/internal/logging"
	"github.com/dmitrijs2005/duemate/internal/testutil/fakeapi"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv     *fakeapi.Server
	db      *sql.DB
	session *session.Session
	client  *client.HTTPClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := fakeapi.New(t)
	c, err := client.NewHTTPClient(srv.URL, nil, 5*time.Second)
	require.NoError(t, err)

	return &fixture{srv: srv, db: db, session: session.New(db), client: c}
}

func (f *fixture) auth() AuthService {
	return NewAuthService(f.client, f.session, logging.Discard())
}

func (f *fixture) payments() PaymentService {
	return NewPaymentService(f.client, f.session)
}

func (f *fixture) stored(t *testing.T) map[string]string {
	t.Helper()
	m, err := metadata.NewSQLiteRepository(f.db).List(context.Background())
	require.NoError(t, err)
	return m
}
