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

const memberRequestTableName = "boothvoice.member_requests"

var memberRequestColumns = utils.StructTagValues(types.MemberRequest{})

// MemberRequestRepository holds suggestions and volunteer signups.
type MemberRequestRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRequestRepository(pool *pgxpool.Pool) *MemberRequestRepository {
	return &MemberRequestRepository{pool: pool}
}

func (r *MemberRequestRepository) Create(ctx context.Context, request *types.MemberRequest) error {

	requestMap := utils.StructToMap(request)

	query, args, err := psql().Insert(memberRequestTableName).SetMap(requestMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert member request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create member request")
}

func (r *MemberRequestRepository) ByReference(ctx context.Context, referenceID string) (*types.MemberRequest, error) {

	query, args, err := psql().Select(memberRequestColumns...).From(memberRequestTableName).
		Where(sq.Eq{"reference_id": referenceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate member request query: %w", err)
	}

	var request = new(types.MemberRequest)
	err = pgxscan.Get(ctx, r.pool, request, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrMemberRequestNotFound
	}

	return request, nil
}

func (r *MemberRequestRepository) CountByType(ctx context.Context, requestType types.SubmissionType) (int64, error) {
	return r.count(ctx, sq.Eq{"type": requestType})
}

func (r *MemberRequestRepository) CountByPhoneAndType(ctx context.Context, phone string, requestType types.SubmissionType) (int64, error) {
	return r.count(ctx, sq.Eq{"phone": phone, "type": requestType})
}

func (r *MemberRequestRepository) count(ctx context.Context, pred any) (int64, error) {

	query, args, err := psql().Select("count(*)").From(memberRequestTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate member request count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count member requests: %w", err)
	}

	return count, nil
}

// VolunteerByPhone returns the submitter's volunteer registration, if any.
func (r *MemberRequestRepository) VolunteerByPhone(ctx context.Context, phone string) (*types.MemberRequest, error) {

	query, args, err := psql().Select(memberRequestColumns...).From(memberRequestTableName).
		Where(sq.Eq{"phone": phone, "type": types.TypeVolunteer}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteer query: %w", err)
	}

	var request = new(types.MemberRequest)
	err = pgxscan.Get(ctx, r.pool, request, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrMemberRequestNotFound
	}

	return request, nil
}

func (r *MemberRequestRepository) RecentByType(ctx context.Context, requestType types.SubmissionType, limit uint64) ([]*types.MemberRequest, error) {

	query, args, err := psql().Select(memberRequestColumns...).From(memberRequestTableName).
		Where(sq.Eq{"type": requestType}).
		OrderBy("id desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recent member requests query: %w", err)
	}

	var requests = make([]*types.MemberRequest, 0)
	if err := pgxscan.Select(ctx, r.pool, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select recent member requests: %w", err)
	}

	return requests, nil
}

func (r *MemberRequestRepository) UpdateStatus(ctx context.Context, referenceID string, status types.SubmissionStatus) error {

	query, args, err := psql().Update(memberRequestTableName).
		Set("status", status).
		Where(sq.Eq{"reference_id": referenceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate member request status update for %s: %w", referenceID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update member request status")
}
