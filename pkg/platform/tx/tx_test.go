package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx_NilKeepsContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestExec_FallsBackToDB(t *testing.T) {
	db, ok := Exec(context.Background(), nil).(*sql.DB)
	assert.True(t, ok)
	assert.Nil(t, db)
}

func TestRun_RequiresDB(t *testing.T) {
	called := false
	err := Run(context.Background(), nil, func(context.Context) error {
		called = true
		return errors.New("unreachable")
	})
	assert.EqualError(t, err, "tx: database is required")
	assert.False(t, called)
}
