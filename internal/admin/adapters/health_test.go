package adapters

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLChecker(t *testing.T) {
	assert.EqualError(t, NewSQLChecker(nil).Health(context.Background()), "database not configured")

	db, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=triad dbname=triad sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	defer db.Close()
	err = NewSQLChecker(db).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}

func TestCheckerFunc(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, CheckerFunc(func(context.Context) error { return boom }).Health(context.Background()), boom)
}
