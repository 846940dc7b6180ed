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

const pulseTableName = "boothvoice.booth_pulse_votes"

var pulseColumns = utils.StructTagValues(types.PulseVote{})

// PulseRepository holds the current standing booth-pulse votes. At most
// one live vote exists per (phone, booth) pair; callers delete the old
// vote before inserting a replacement.
type PulseRepository struct {
	pool *pgxpool.Pool
}

func NewPulseRepository(pool *pgxpool.Pool) *PulseRepository {
	return &PulseRepository{pool: pool}
}

func (r *PulseRepository) Vote(ctx context.Context, phone, booth string) (*types.PulseVote, error) {

	query, args, err := psql().Select(pulseColumns...).From(pulseTableName).
		Where(sq.Eq{"phone": phone, "booth": booth}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pulse vote query: %w", err)
	}

	var vote = new(types.PulseVote)
	err = pgxscan.Get(ctx, r.pool, vote, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrPulseVoteNotFound
	}

	return vote, nil
}

func (r *PulseRepository) Delete(ctx context.Context, phone, booth string) error {

	query, args, err := psql().Delete(pulseTableName).
		Where(sq.Eq{"phone": phone, "booth": booth}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate pulse vote delete: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete pulse vote")
}

func (r *PulseRepository) Create(ctx context.Context, vote *types.PulseVote) error {

	voteMap := utils.StructToMap(vote)

	query, args, err := psql().Insert(pulseTableName).SetMap(voteMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert pulse vote query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create pulse vote")
}

// TallyByBooth groups the booth's standing votes by choice.
func (r *PulseRepository) TallyByBooth(ctx context.Context, booth string) (map[string]int, error) {

	query, args, err := psql().Select("choice", "count(*) as votes").From(pulseTableName).
		Where(sq.Eq{"booth": booth}).
		GroupBy("choice").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pulse tally query: %w", err)
	}

	var rows = make([]*struct {
		Choice string `db:"choice"`
		Votes  int    `db:"votes"`
	}, 0)
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select pulse tally: %w", err)
	}

	tally := make(map[string]int, len(rows))
	for _, row := range rows {
		tally[row.Choice] = row.Votes
	}

	return tally, nil
}
