package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"courtside/infras/otel"
	"courtside/infras/postgres"
	"courtside/internal/domains/booking/model"
	"courtside/shared/constant"
	gDto "courtside/shared/dto"
	"courtside/shared/logger"
	gRepo "courtside/shared/repository"
)

type Booking interface {
	InTx(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	GetExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InTx runs fn inside a write transaction, rolling back on any error.
func (repo *repositoryImpl) InTx(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error {
	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	if err = fn(sqltx); err != nil {
		if rbErr := sqltx.Rollback(); rbErr != nil {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

const expiredHoldsQuery = `
SELECT id, user_id, court_id, booking_date, start_time, end_time, total_price, status, payment_status, payment_method, proof_of_payment_url, created_at, modified_at, created_by, modified_by
FROM bookings
WHERE status = $1 AND payment_status <> $2 AND created_at < $3
ORDER BY created_at
LIMIT $4`

// GetExpiredHolds returns unpaid pending bookings created before the cutoff,
// oldest first. Anything short of a completed payment counts as unpaid, so a
// failed transfer does not keep its slots held. The sweep caller bounds each
// pass with limit.
func (repo *repositoryImpl) GetExpiredHolds(ctx context.Context, cutoff time.Time, limit int) (res []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.GetExpiredHolds", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, expiredHoldsQuery)

	err = repo.db.Read.SelectContext(ctx, &res, expiredHoldsQuery,
		model.StatusPending, model.PaymentPaid, cutoff, limit)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get expired booking holds: %w", err)
	}

	return res, nil
}
