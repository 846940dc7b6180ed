package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"boothvoice/internal/session"
	"boothvoice/pkg/types"
)

// pulseCooldown is the minimum gap between two counted votes from the
// same phone in the same booth. A vote after the window replaces the
// earlier one rather than stacking.
const pulseCooldown = 30 * time.Minute

// pollOptions is the canonical option order for rendered results. Every
// option renders even at zero votes.
var pollOptions = []struct {
	ID    string
	Label string
}{
	{"poll_1", "💧 Water & Drainage"},
	{"poll_2", "🛣️ Roads & Infra"},
	{"poll_3", "⚡ Electricity"},
	{"poll_4", "🏫 Education"},
}

func (e *Engine) handlePollVote(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	action := Classify(StateFlow7Poll, ev.Text)
	if action == ActionNone {
		return []types.Directive{types.TextDirective("Please select an option from the list above to vote.")}, nil
	}

	booth := boothOrUnknown(sess)

	existing, err := e.pulse.Vote(ctx, ev.From, booth)
	if err != nil && !errors.Is(err, types.ErrPulseVoteNotFound) {
		return nil, fmt.Errorf("lookup pulse vote: %w", err)
	}

	if existing != nil {
		age := e.now().Sub(existing.VotedAt)
		if age < pulseCooldown {
			minutes := int((pulseCooldown - age) / time.Minute)
			msg := fmt.Sprintf("🗳️ You have already voted in this round.\n\nYou can vote again in %d minutes. One voice per round keeps the pulse honest.", minutes)
			out := []types.Directive{types.ImageDirective(imgBoothCooldown, msg)}
			return append(out, e.loopPrompt(sess)...), nil
		}

		if err := e.pulse.Delete(ctx, ev.From, booth); err != nil {
			return nil, fmt.Errorf("replace pulse vote: %w", err)
		}
	}

	vote := &types.PulseVote{
		Phone:   ev.From,
		Booth:   booth,
		Choice:  string(action),
		VotedAt: e.now(),
	}
	if err := e.pulse.Create(ctx, vote); err != nil {
		return nil, fmt.Errorf("create pulse vote: %w", err)
	}

	tally, err := e.pulse.TallyByBooth(ctx, booth)
	if err != nil {
		return nil, fmt.Errorf("tally pulse votes: %w", err)
	}

	msg := renderPollResults(displayName(sess), booth, tally)
	out := []types.Directive{types.ImageDirective(imgBoothResults, msg)}
	return append(out, e.loopPrompt(sess)...), nil
}

// renderPollResults builds the live tally card: one bar per option in
// canonical order, percentages truncated to whole points.
func renderPollResults(name, booth string, tally map[string]int) string {
	total := 0
	for _, count := range tally {
		total += count
	}
	if total == 0 {
		total = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗳️ Thank you, %s! Your vote has been counted.\n\n📊 *Live Booth Pulse — Booth %s*\n\n", name, booth)

	for _, opt := range pollOptions {
		count := tally[opt.ID]
		pct := count * 100 / total
		filled := pct / 10
		bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		fmt.Fprintf(&b, "%s\n%s %d%%\n\n", opt.Label, bar, pct)
	}

	b.WriteString("_Results update in real time as your neighbours vote._")
	return b.String()
}
