package bot

import (
	"testing"
	"time"

	"boothvoice/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_PulseVoteAndTally(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500020"
	verifiedTo(t, env, from)

	// Two neighbours already voted in booth 101.
	env.pulse.votes = append(env.pulse.votes,
		&types.PulseVote{Phone: "911111111111", Booth: "101", Choice: "poll_1", VotedAt: time.Now()},
		&types.PulseVote{Phone: "922222222222", Booth: "101", Choice: "poll_2", VotedAt: time.Now()},
	)

	env.send(t, from, "menu_7")
	out := env.send(t, from, "poll_1")

	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "Your vote has been counted")
	assert.Contains(t, out[0].Body, "Booth 101")
	assert.Contains(t, out[0].Body, "66%")
	assert.Contains(t, out[0].Body, "33%")
	assert.Equal(t, string(StateLoopPrompt), env.state(t, from))

	require.Len(t, env.pulse.votes, 3)
}

func TestHandle_PulseCooldownRejects(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500021"
	verifiedTo(t, env, from)

	env.pulse.votes = append(env.pulse.votes, &types.PulseVote{
		Phone: from, Booth: "101", Choice: "poll_1",
		VotedAt: time.Now().Add(-10 * time.Minute),
	})

	env.send(t, from, "menu_7")
	out := env.send(t, from, "poll_2")

	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "already voted")
	assert.Contains(t, out[0].Body, "19 minutes")

	// The standing vote is untouched.
	require.Len(t, env.pulse.votes, 1)
	assert.Equal(t, "poll_1", env.pulse.votes[0].Choice)
}

func TestHandle_PulseRevoteAfterCooldown(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500022"
	verifiedTo(t, env, from)

	env.pulse.votes = append(env.pulse.votes, &types.PulseVote{
		Phone: from, Booth: "101", Choice: "poll_1",
		VotedAt: time.Now().Add(-31 * time.Minute),
	})

	env.send(t, from, "menu_7")
	out := env.send(t, from, "poll_3")

	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "Your vote has been counted")

	// The old vote is replaced, never stacked.
	require.Len(t, env.pulse.votes, 1)
	assert.Equal(t, "poll_3", env.pulse.votes[0].Choice)
}

func TestHandle_PulseUnmatchedReprompts(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500023"
	verifiedTo(t, env, from)

	env.send(t, from, "menu_7")
	out := env.send(t, from, "hmm not sure")

	require.Len(t, out, 1)
	assert.Contains(t, out[0].Body, "select an option")
	assert.Equal(t, string(StateFlow7Poll), env.state(t, from))
	assert.Empty(t, env.pulse.votes)
}

func TestRenderPollResults(t *testing.T) {
	msg := renderPollResults("Karthik Raja", "101", map[string]int{
		"poll_1": 5,
		"poll_2": 3,
		"poll_3": 2,
	})

	assert.Contains(t, msg, "Karthik Raja")
	assert.Contains(t, msg, "💧 Water & Drainage")
	assert.Contains(t, msg, "🏫 Education")

	// 5/10, 3/10, 2/10, 0/10.
	assert.Contains(t, msg, "█████░░░░░ 50%")
	assert.Contains(t, msg, "███░░░░░░░ 30%")
	assert.Contains(t, msg, "██░░░░░░░░ 20%")
	assert.Contains(t, msg, "░░░░░░░░░░ 0%")
}

func TestRenderPollResults_EmptyTally(t *testing.T) {
	msg := renderPollResults("Citizen", "Unknown", map[string]int{})

	// All four options render at zero without dividing by zero.
	assert.Contains(t, msg, "💧 Water & Drainage")
	assert.Contains(t, msg, "🛣️ Roads & Infra")
	assert.Contains(t, msg, "⚡ Electricity")
	assert.Contains(t, msg, "🏫 Education")
	assert.NotContains(t, msg, "NaN")
}
