package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type ConnectionInfo struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Postgres struct {
	DB *sqlx.DB
}

func NewConnection(ctx context.Context, info ConnectionInfo) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", info.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(info.MaxOpenConns)
	db.SetMaxIdleConns(info.MaxIdleConns)
	db.SetConnMaxLifetime(info.ConnMaxLifetime)

	return &Postgres{DB: db}, nil
}

func (p *Postgres) Close() error {
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}
