package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/duemate/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchemaAndDirectory(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "session.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, "token", "tok1"))

	v, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "tok1", v)
}

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, "user_id", "42"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v, err := metadata.NewSQLiteRepository(db).Get(ctx, "user_id")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestMigrations_RenameLegacyTokenKey(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "legacy.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Simulate a store written before the key was standardised and
	// re-apply the rename migration by hand.
	_, err = db.ExecContext(ctx, `INSERT INTO metadata(key, value) VALUES ('access_token', 'legacy')`)
	require.NoError(t, err)
	b, err := migrationsFS("00002_standardize_token_key.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, upSection(b))
	require.NoError(t, err)

	m, err := metadata.NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "legacy"}, m)
}
