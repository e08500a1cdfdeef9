package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"newleash/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed schema.sql
var schema string

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate crea el esquema si no existe. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range strings.Split(schema, ";\n") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapErr traduce violaciones de constraints a errores de aplicación.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return err
	}

	switch pe.Code {
	case pgUniqueViolation:
		switch {
		case strings.Contains(pe.ConstraintName, "username"):
			return apperror.Conflict("username", "username already taken")
		case strings.Contains(pe.ConstraintName, "email"):
			return apperror.Conflict("email", "email already registered")
		case strings.Contains(pe.ConstraintName, "external"):
			return apperror.Conflict("externalId", "record already exists for this external id")
		default:
			return apperror.Conflict("", "record already exists")
		}
	case pgForeignKeyViolation:
		switch pe.ConstraintName {
		case "saved_pet_fk":
			return &apperror.AppError{Err: apperror.ErrNotFound, Message: "pet not found"}
		case "comments_thread_fk":
			return &apperror.AppError{Err: apperror.ErrNotFound, Message: "thread not found"}
		default:
			return &apperror.AppError{Err: apperror.ErrNotFound, Message: "profile not found"}
		}
	case pgCheckViolation:
		return apperror.Invalid("", "value rejected by constraint "+pe.ConstraintName)
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}
