package store

import (
	"context"
	"fmt"

	"boothvoice/internal/utils"
	"boothvoice/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const grievanceTableName = "boothvoice.grievances"

var grievanceColumns = utils.StructTagValues(types.Grievance{})

// GrievanceRepository holds reported issues and photo evidence, which
// share the table under distinct type tags.
type GrievanceRepository struct {
	pool *pgxpool.Pool
}

func NewGrievanceRepository(pool *pgxpool.Pool) *GrievanceRepository {
	return &GrievanceRepository{pool: pool}
}

func (r *GrievanceRepository) Create(ctx context.Context, grievance *types.Grievance) error {

	grievanceMap := utils.StructToMap(grievance)

	query, args, err := psql().Insert(grievanceTableName).SetMap(grievanceMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert grievance query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create grievance")
}

func (r *GrievanceRepository) ByReference(ctx context.Context, referenceID string) (*types.Grievance, error) {

	query, args, err := psql().Select(grievanceColumns...).From(grievanceTableName).
		Where(sq.Eq{"reference_id": referenceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate grievance query: %w", err)
	}

	var grievance = new(types.Grievance)
	err = pgxscan.Get(ctx, r.pool, grievance, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrGrievanceNotFound
	}

	return grievance, nil
}

func (r *GrievanceRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	return r.count(ctx, sq.Eq{"phone": phone})
}

func (r *GrievanceRepository) CountByPhoneAndStatus(ctx context.Context, phone string, status types.SubmissionStatus) (int64, error) {
	return r.count(ctx, sq.Eq{"phone": phone, "status": status})
}

func (r *GrievanceRepository) CountByStatus(ctx context.Context, status types.SubmissionStatus) (int64, error) {
	return r.count(ctx, sq.Eq{"status": status})
}

func (r *GrievanceRepository) count(ctx context.Context, pred any) (int64, error) {

	query, args, err := psql().Select("count(*)").From(grievanceTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate grievance count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count grievances: %w", err)
	}

	return count, nil
}

func (r *GrievanceRepository) Recent(ctx context.Context, limit uint64) ([]*types.Grievance, error) {

	query, args, err := psql().Select(grievanceColumns...).From(grievanceTableName).
		OrderBy("id desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recent grievances query: %w", err)
	}

	var grievances = make([]*types.Grievance, 0)
	if err := pgxscan.Select(ctx, r.pool, &grievances, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select recent grievances: %w", err)
	}

	return grievances, nil
}

// BoothActivity is one row of the per-booth issue histogram.
type BoothActivity struct {
	Booth  string `db:"booth"`
	Issues int64  `db:"issues"`
}

func (r *GrievanceRepository) BoothAnalytics(ctx context.Context, limit uint64) ([]*BoothActivity, error) {

	query, args, err := psql().Select("booth", "count(*) as issues").From(grievanceTableName).
		GroupBy("booth").
		OrderBy("issues desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booth analytics query: %w", err)
	}

	var rows = make([]*BoothActivity, 0)
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select booth analytics: %w", err)
	}

	return rows, nil
}

func (r *GrievanceRepository) UpdateStatus(ctx context.Context, referenceID string, status types.SubmissionStatus) error {

	query, args, err := psql().Update(grievanceTableName).
		Set("status", status).
		Where(sq.Eq{"reference_id": referenceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate grievance status update for %s: %w", referenceID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update grievance status")
}
