package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithTx(ctx, nil), "nil tx leaves ctx unchanged")

	tx := &sql.Tx{}
	got, ok := From(WithTx(ctx, tx))
	assert.True(t, ok)
	assert.Same(t, tx, got)
}

func TestOr(t *testing.T) {
	db := &sql.DB{}
	tx := &sql.Tx{}

	assert.Same(t, db, Or(context.Background(), db))
	assert.Same(t, tx, Or(WithTx(context.Background(), tx), db))
}
