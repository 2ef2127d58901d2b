package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"courtside/infras/otel"
	"courtside/infras/postgres"
	"courtside/internal/domains/schedule/model"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/failure"
	"courtside/shared/logger"
	gRepo "courtside/shared/repository"
)

type Schedule interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Schedule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Schedule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Upsert(ctx context.Context, model model.Schedule) error
	UpsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Schedule) error
	InsertSlotTx(ctx context.Context, sqltx *sqlx.Tx, model model.Schedule) error
	LockSlotsTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startTimes []string) ([]model.Schedule, error)
	ReleaseSlotsTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startTimes []string) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Schedule]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Schedule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Schedule](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const upsertQuery = `
INSERT INTO schedules (id, court_id, date, start_time, end_time, status, user_id, display_name, override, created_at, modified_at, created_by, modified_by)
VALUES (:id, :court_id, :date, :start_time, :end_time, :status, :user_id, :display_name, :override, :created_at, :modified_at, :created_by, :modified_by)
ON CONFLICT (court_id, date, start_time) DO UPDATE SET
	end_time     = EXCLUDED.end_time,
	status       = EXCLUDED.status,
	user_id      = EXCLUDED.user_id,
	display_name = EXCLUDED.display_name,
	override     = EXCLUDED.override,
	modified_at  = EXCLUDED.modified_at,
	modified_by  = EXCLUDED.modified_by`

// Upsert writes a single projection row keyed by (court_id, date, start_time).
// Row-level conflict resolution is last writer wins; the booking service is
// responsible for never racing two active bookings onto the same slot.
func (repo *repositoryImpl) Upsert(ctx context.Context, mod model.Schedule) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.Upsert", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	if _, err = repo.db.Write.NamedExecContext(ctx, upsertQuery, mod); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to upsert schedule row: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) UpsertTx(ctx context.Context, sqltx *sqlx.Tx, mod model.Schedule) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.UpsertTx", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	if _, err = sqltx.NamedExecContext(ctx, upsertQuery, mod); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to upsert schedule row: %w", err)
	}

	return nil
}

const insertSlotQuery = `
INSERT INTO schedules (id, court_id, date, start_time, end_time, status, user_id, display_name, override, created_at, modified_at, created_by, modified_by)
VALUES (:id, :court_id, :date, :start_time, :end_time, :status, :user_id, :display_name, :override, :created_at, :modified_at, :created_by, :modified_by)`

// InsertSlotTx inserts a projection row without conflict resolution. The
// unique index on (court_id, date, start_time) is the last line of defence
// against two transactions claiming the same empty slot; the loser gets a
// conflict failure instead of silently overwriting the winner's row.
func (repo *repositoryImpl) InsertSlotTx(ctx context.Context, sqltx *sqlx.Tx, mod model.Schedule) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.InsertSlotTx", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, insertSlotQuery)

	if _, err = sqltx.NamedExecContext(ctx, insertSlotQuery, mod); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("slot already taken") // nolint:wrapcheck
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert schedule row: %w", err)
	}

	return nil
}

// LockSlotsTx reads and row-locks every existing schedule row for the given
// slots, serialising concurrent claims on the same court and date. Slots with
// no row are simply absent from the result: absent means available.
func (repo *repositoryImpl) LockSlotsTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startTimes []string) (rows []model.Schedule, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.LockSlotsTx", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	query, args, err := sqlx.In(
		`SELECT id, court_id, date, start_time, end_time, status, user_id, display_name, override, created_at, modified_at, created_by, modified_by
		 FROM schedules
		 WHERE court_id = ? AND date = ? AND start_time IN (?)
		 FOR UPDATE`,
		courtID, date, startTimes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build slot lock query: %w", err)
	}

	query = sqltx.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqltx.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to lock schedule slots: %w", err)
	}

	return rows, nil
}

// ReleaseSlotsTx deletes the non-override projection rows for the given
// slots. Admin maintenance and holiday rows are left untouched: only an
// explicit admin action clears an override.
func (repo *repositoryImpl) ReleaseSlotsTx(ctx context.Context, sqltx *sqlx.Tx, courtID, date string, startTimes []string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.ReleaseSlotsTx", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	query, args, err := sqlx.In(
		`DELETE FROM schedules
		 WHERE court_id = ? AND date = ? AND start_time IN (?) AND override = FALSE`,
		courtID, date, startTimes,
	)
	if err != nil {
		return fmt.Errorf("failed to build slot release query: %w", err)
	}

	query = sqltx.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = sqltx.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release schedule slots: %w", err)
	}

	return nil
}
