package user

import (
	"context"
	"testing"
	"time"

	"crud-service/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryRepo() *PostgresUserRepository {
	return NewPostgresUserRepository(&database.PostgresDB{}, "systemusers")
}

func TestPostgresCountQuery(t *testing.T) {
	r := newQueryRepo()

	query, args, err := r.countQuery(Filter{})
	require.NoError(t, err)
	assert.Contains(t, query, `COUNT(*)`)
	assert.Contains(t, query, `FROM "systemusers"`)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, args, err = r.countQuery(Filter{Status: StatusActive})
	require.NoError(t, err)
	assert.Contains(t, query, `"status" = $1`)
	assert.Equal(t, []any{StatusActive}, args)
}

func TestPostgresSampleQueryIsRandomAndCapped(t *testing.T) {
	query, args, err := newQueryRepo().sampleQuery(Filter{Status: StatusActive}, 10)
	require.NoError(t, err)

	assert.Contains(t, query, `SELECT "user_id" FROM "systemusers"`)
	assert.Contains(t, query, `ORDER BY RANDOM() ASC`)
	assert.Contains(t, query, `LIMIT`)
	require.NotEmpty(t, args)
	assert.Equal(t, StatusActive, args[0])
}

func TestPostgresInsertQueryUsesColumns(t *testing.T) {
	user := &User{
		UserID: "user2000", Username: "ivy_moore", Email: "ivy.moore@example.com",
		FirstName: "Ivy", LastName: "Moore", Role: "Lead", Status: StatusActive,
		Department: "Legal", CreatedAt: time.Now(), LastLoginAt: time.Now(),
	}

	query, args, err := newQueryRepo().insertQuery(user)
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "systemusers"`)
	for _, col := range columns {
		assert.Contains(t, query, `"`+col+`"`)
	}
	assert.Len(t, args, len(columns))
	assert.Contains(t, args, "user2000")
}

func TestPostgresUpdateAndDeleteTouchOneRow(t *testing.T) {
	r := newQueryRepo()

	query, args, err := r.updateQuery("user2000", Fields{FieldStatus: StatusInactive})
	require.NoError(t, err)
	assert.Contains(t, query, `UPDATE "systemusers" SET "status"=$1`)
	assert.Contains(t, query, `(SELECT "id" FROM "systemusers"`)
	assert.Contains(t, args, "user2000")
	assert.Contains(t, args, StatusInactive)

	query, args, err = r.deleteQuery("user2000")
	require.NoError(t, err)
	assert.Contains(t, query, `DELETE FROM "systemusers"`)
	assert.Contains(t, query, `(SELECT "id" FROM "systemusers"`)
	assert.Contains(t, args, "user2000")
}

func TestPostgresUpdateRejectsUnknownField(t *testing.T) {
	_, _, err := newQueryRepo().updateQuery("user2000", Fields{"salary": 10})
	assert.ErrorContains(t, err, "salary")
}

func TestPostgresCallsFailBeforeConnect(t *testing.T) {
	_, err := newQueryRepo().Count(context.Background(), Filter{})

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "count", storeErr.Op)
	assert.ErrorIs(t, err, database.ErrNotConnected)
}
