package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boothvoice/pkg/types"
)

// Placeholder fields for voters provisioned from chat rather than the
// official roll.
const (
	guestName    = "Unknown (Guest)"
	pendingBooth = "Pending"
	botSource    = "WhatsApp Bot"
)

func normalizeEpic(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func validEpicShape(epic string) bool {
	return len(epic) >= 5 && len(epic) <= 20
}

// resolveVoter looks the EPIC up on the roll and auto-provisions a guest
// record when it is absent. found reports whether the voter was already
// on file.
func (e *Engine) resolveVoter(ctx context.Context, epic, phone string) (voter *types.Voter, found bool, err error) {
	voter, err = e.voters.Voter(ctx, epic)
	if err == nil {
		return voter, true, nil
	}
	if !errors.Is(err, types.ErrVoterNotFound) {
		return nil, false, fmt.Errorf("lookup voter %s: %w", epic, err)
	}

	voter = &types.Voter{
		VoterID:    epic,
		Name:       guestName,
		PartNumber: pendingBooth,
		Phone:      phone,
		Status:     types.VoterStatusUnverified,
		Source:     botSource,
		CreatedOn:  e.today(),
	}

	if err := e.voters.Create(ctx, voter); err != nil {
		return nil, false, fmt.Errorf("provision voter %s: %w", epic, err)
	}

	return voter, false, nil
}

// today renders the current date in the constituency's timezone, in the
// display format used throughout stored records.
func (e *Engine) today() string {
	return e.now().In(e.loc).Format("02 Jan 2006")
}
