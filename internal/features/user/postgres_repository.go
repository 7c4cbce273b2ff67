package user

import (
	"context"
	"fmt"

	"crud-service/internal/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres = "postgres"
	colID           = "id"
)

// columns maps document field names to table columns.
var columns = map[string]string{
	FieldUserID:      "user_id",
	FieldUsername:    "username",
	FieldEmail:       "email",
	FieldFirstName:   "first_name",
	FieldLastName:    "last_name",
	FieldRole:        "role",
	FieldStatus:      "status",
	FieldDepartment:  "department",
	FieldCreatedAt:   "created_at",
	FieldLastLoginAt: "last_login_at",
}

// The surrogate id keeps rows addressable when a restarted process reuses a userId.
const createTableSQL = `CREATE TABLE IF NOT EXISTS %[1]s (
	id            BIGSERIAL PRIMARY KEY,
	user_id       TEXT NOT NULL,
	username      TEXT NOT NULL,
	email         TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	role          TEXT NOT NULL,
	status        TEXT NOT NULL,
	department    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	last_login_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (user_id);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (status)`

type PostgresUserRepository struct {
	db      *database.PostgresDB
	table   string
	builder *goqu.DialectWrapper
}

func NewPostgresUserRepository(db *database.PostgresDB, table string) *PostgresUserRepository {
	builder := goqu.Dialect(dialectPostgres)
	return &PostgresUserRepository{db: db, table: table, builder: &builder}
}

func (r *PostgresUserRepository) Connect(ctx context.Context) error {
	if err := r.db.Connect(ctx); err != nil {
		return err
	}
	if err := r.EnsureSchema(ctx); err != nil {
		_ = r.db.Close(ctx)
		return err
	}
	return nil
}

func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.db.Close(ctx)
}

func (r *PostgresUserRepository) EnsureSchema(ctx context.Context) error {
	pool, err := r.pool()
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, fmt.Sprintf(createTableSQL,
		pgx.Identifier{r.table}.Sanitize(),
		pgx.Identifier{r.table + "_user_id_idx"}.Sanitize(),
		pgx.Identifier{r.table + "_status_idx"}.Sanitize(),
	))
	return err
}

func (r *PostgresUserRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	pool, err := r.pool()
	if err != nil {
		return 0, storeErr("count", err)
	}
	query, args, err := r.countQuery(filter)
	if err != nil {
		return 0, storeErr("count", err)
	}
	var n int64
	err = pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, storeErr("count", err)
}

func (r *PostgresUserRepository) Sample(ctx context.Context, filter Filter, limit int64) ([]string, error) {
	pool, err := r.pool()
	if err != nil {
		return nil, storeErr("sample", err)
	}
	query, args, err := r.sampleQuery(filter, limit)
	if err != nil {
		return nil, storeErr("sample", err)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("sample", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("sample", err)
		}
		ids = append(ids, id)
	}
	return ids, storeErr("sample", rows.Err())
}

func (r *PostgresUserRepository) Insert(ctx context.Context, user *User) error {
	pool, err := r.pool()
	if err != nil {
		return storeErr("insert", err)
	}
	query, args, err := r.insertQuery(user)
	if err != nil {
		return storeErr("insert", err)
	}
	_, err = pool.Exec(ctx, query, args...)
	return storeErr("insert", err)
}

func (r *PostgresUserRepository) UpdateFields(ctx context.Context, userID string, fields Fields) (int64, error) {
	pool, err := r.pool()
	if err != nil {
		return 0, storeErr("update", err)
	}
	query, args, err := r.updateQuery(userID, fields)
	if err != nil {
		return 0, storeErr("update", err)
	}
	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, storeErr("update", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, userID string) (int64, error) {
	pool, err := r.pool()
	if err != nil {
		return 0, storeErr("delete", err)
	}
	query, args, err := r.deleteQuery(userID)
	if err != nil {
		return 0, storeErr("delete", err)
	}
	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, storeErr("delete", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresUserRepository) pool() (*pgxpool.Pool, error) {
	if r.db.Pool == nil {
		return nil, database.ErrNotConnected
	}
	return r.db.Pool, nil
}

func (r *PostgresUserRepository) filtered(ds *goqu.SelectDataset, filter Filter) *goqu.SelectDataset {
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{columns[FieldStatus]: filter.Status})
	}
	return ds
}

func (r *PostgresUserRepository) countQuery(filter Filter) (string, []any, error) {
	ds := r.builder.From(r.table).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star()))
	return r.filtered(ds, filter).ToSQL()
}

func (r *PostgresUserRepository) sampleQuery(filter Filter, limit int64) (string, []any, error) {
	ds := r.builder.From(r.table).
		Prepared(true).
		Select(columns[FieldUserID]).
		Order(goqu.L("RANDOM()").Asc()).
		Limit(uint(limit))
	return r.filtered(ds, filter).ToSQL()
}

func (r *PostgresUserRepository) insertQuery(user *User) (string, []any, error) {
	return r.builder.Insert(r.table).
		Prepared(true).
		Rows(goqu.Record{
			columns[FieldUserID]:      user.UserID,
			columns[FieldUsername]:    user.Username,
			columns[FieldEmail]:       user.Email,
			columns[FieldFirstName]:   user.FirstName,
			columns[FieldLastName]:    user.LastName,
			columns[FieldRole]:        user.Role,
			columns[FieldStatus]:      user.Status,
			columns[FieldDepartment]:  user.Department,
			columns[FieldCreatedAt]:   user.CreatedAt,
			columns[FieldLastLoginAt]: user.LastLoginAt,
		}).
		ToSQL()
}

// firstRow narrows a statement to a single row, matching Mongo's updateOne/deleteOne.
func (r *PostgresUserRepository) firstRow(userID string) goqu.Expression {
	return goqu.C(colID).Eq(
		r.builder.From(r.table).
			Select(colID).
			Where(goqu.Ex{columns[FieldUserID]: userID}).
			Limit(1),
	)
}

func (r *PostgresUserRepository) updateQuery(userID string, fields Fields) (string, []any, error) {
	record := goqu.Record{}
	for field, value := range fields {
		col, ok := columns[field]
		if !ok {
			return "", nil, fmt.Errorf("unknown field %q", field)
		}
		record[col] = value
	}
	return r.builder.Update(r.table).
		Prepared(true).
		Set(record).
		Where(r.firstRow(userID)).
		ToSQL()
}

func (r *PostgresUserRepository) deleteQuery(userID string) (string, []any, error) {
	return r.builder.Delete(r.table).
		Prepared(true).
		Where(r.firstRow(userID)).
		ToSQL()
}
