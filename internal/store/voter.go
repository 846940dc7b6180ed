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

const voterTableName = "boothvoice.voters"

var voterColumns = utils.StructTagValues(types.Voter{})

type VoterRepository struct {
	pool *pgxpool.Pool
}

func NewVoterRepository(pool *pgxpool.Pool) *VoterRepository {
	return &VoterRepository{pool: pool}
}

func (r *VoterRepository) Voter(ctx context.Context, voterID string) (*types.Voter, error) {

	query, args, err := psql().Select(voterColumns...).From(voterTableName).
		Where(sq.Eq{"voter_id": voterID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate voter query: %w", err)
	}

	var voter = new(types.Voter)
	err = pgxscan.Get(ctx, r.pool, voter, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrVoterNotFound
	}

	return voter, nil
}

func (r *VoterRepository) Create(ctx context.Context, voter *types.Voter) error {

	voterMap := utils.StructToMap(voter)

	query, args, err := psql().Insert(voterTableName).SetMap(voterMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert voter query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create voter")
}

func (r *VoterRepository) Count(ctx context.Context) (int64, error) {

	query, args, err := psql().Select("count(*)").From(voterTableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate voter count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}

	return count, nil
}

func (r *VoterRepository) Recent(ctx context.Context, limit uint64) ([]*types.Voter, error) {

	query, args, err := psql().Select(voterColumns...).From(voterTableName).
		OrderBy("id desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recent voters query: %w", err)
	}

	var voters = make([]*types.Voter, 0)
	if err := pgxscan.Select(ctx, r.pool, &voters, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select recent voters: %w", err)
	}

	return voters, nil
}
