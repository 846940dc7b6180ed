package types

import (
	"errors"
	"time"
)

var ErrPulseVoteNotFound = errors.New("pulse vote not found")

// PulseVote is the current standing vote for a (phone, booth) pair.
// The table holds at most one live vote per pair; superseded votes are
// deleted, not archived.
type PulseVote struct {
	Phone   string    `db:"phone"`
	Booth   string    `db:"booth"`
	Choice  string    `db:"choice"`
	VotedAt time.Time `db:"voted_at"`
}
