package types

import "errors"

var ErrVoterNotFound = errors.New("voter not found")

type VoterStatus string

const (
	VoterStatusUnverified VoterStatus = "Unverified"
	VoterStatusVerified   VoterStatus = "Verified"
)

// Voter is one row of the constituency roll. Records with status
// Unverified were auto-provisioned from an identifier a citizen typed
// and carry placeholder name/booth values until verified externally.
type Voter struct {
	VoterID    string      `db:"voter_id"`
	Name       string      `db:"name"`
	PartNumber string      `db:"part_number"`
	Phone      string      `db:"phone"`
	Status     VoterStatus `db:"status"`
	Source     string      `db:"source"`
	CreatedOn  string      `db:"created_on"`
}
