package kv

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const kvTable = "kv_store"

// Postgres stores keys in the kv_store table created by the migrations in
// /migrations. Batches run inside one SQL transaction.
type Postgres struct {
	sqlDB *sql.DB
	db    bob.DB
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects using a lib/pq connection string.
func OpenPostgres(connStr string) (*Postgres, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return &Postgres{sqlDB: sqlDB, db: bob.NewDB(sqlDB)}, nil
}

// Ping verifies the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.sqlDB.PingContext(ctx)
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	q := psql.Select(
		sm.Columns("value"),
		sm.From(kvTable),
		sm.Where(psql.Quote("key").EQ(psql.Arg(key))),
	)
	value, err := bob.One(ctx, p.db, q, scan.SingleColumnMapper[[]byte])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := bob.Exec(ctx, p.db, upsertQuery(key, value))
	return err
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := bob.Exec(ctx, p.db, deleteQuery(key))
	return err
}

func (p *Postgres) Apply(ctx context.Context, mutations []Mutation) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, mut := range mutations {
		var q bob.Query
		if mut.Remove {
			q = deleteQuery(mut.Key)
		} else {
			q = upsertQuery(mut.Key, mut.Value)
		}
		if _, err := bob.Exec(ctx, tx, q); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *Postgres) Close() error {
	return p.sqlDB.Close()
}

func upsertQuery(key string, value []byte) bob.Query {
	return psql.Insert(
		im.Into(kvTable, "key", "value", "updated_at"),
		im.Values(psql.Arg(key), psql.Arg(string(value)), psql.Raw("now()")),
		im.OnConflict("key").DoUpdate(
			im.SetExcluded("value", "updated_at"),
		),
	)
}

func deleteQuery(key string) bob.Query {
	return psql.Delete(
		dm.From(kvTable),
		dm.Where(psql.Quote("key").EQ(psql.Arg(key))),
	)
}
