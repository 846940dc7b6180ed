package bot

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"boothvoice/internal/session"
	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoters struct {
	roll map[string]*types.Voter
}

func (f *fakeVoters) Voter(_ context.Context, voterID string) (*types.Voter, error) {
	voter, ok := f.roll[voterID]
	if !ok {
		return nil, types.ErrVoterNotFound
	}
	copied := *voter
	return &copied, nil
}

func (f *fakeVoters) Create(_ context.Context, voter *types.Voter) error {
	copied := *voter
	f.roll[voter.VoterID] = &copied
	return nil
}

type fakeGrievances struct {
	created []*types.Grievance
}

func (f *fakeGrievances) Create(_ context.Context, grievance *types.Grievance) error {
	f.created = append(f.created, grievance)
	return nil
}

func (f *fakeGrievances) ByReference(_ context.Context, referenceID string) (*types.Grievance, error) {
	for _, g := range f.created {
		if g.ReferenceID == referenceID {
			return g, nil
		}
	}
	return nil, types.ErrGrievanceNotFound
}

func (f *fakeGrievances) CountByPhone(_ context.Context, phone string) (int64, error) {
	var n int64
	for _, g := range f.created {
		if g.Phone == phone {
			n++
		}
	}
	return n, nil
}

func (f *fakeGrievances) CountByPhoneAndStatus(_ context.Context, phone string, status types.SubmissionStatus) (int64, error) {
	var n int64
	for _, g := range f.created {
		if g.Phone == phone && g.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeMembers struct {
	created []*types.MemberRequest
}

func (f *fakeMembers) Create(_ context.Context, request *types.MemberRequest) error {
	f.created = append(f.created, request)
	return nil
}

func (f *fakeMembers) ByReference(_ context.Context, referenceID string) (*types.MemberRequest, error) {
	for _, m := range f.created {
		if m.ReferenceID == referenceID {
			return m, nil
		}
	}
	return nil, types.ErrMemberRequestNotFound
}

func (f *fakeMembers) CountByPhoneAndType(_ context.Context, phone string, requestType types.SubmissionType) (int64, error) {
	var n int64
	for _, m := range f.created {
		if m.Phone == phone && m.Type == requestType {
			n++
		}
	}
	return n, nil
}

func (f *fakeMembers) VolunteerByPhone(_ context.Context, phone string) (*types.MemberRequest, error) {
	for _, m := range f.created {
		if m.Phone == phone && m.Type == types.TypeVolunteer {
			return m, nil
		}
	}
	return nil, types.ErrMemberRequestNotFound
}

type fakePulse struct {
	votes []*types.PulseVote
}

func (f *fakePulse) Vote(_ context.Context, phone, booth string) (*types.PulseVote, error) {
	for _, v := range f.votes {
		if v.Phone == phone && v.Booth == booth {
			return v, nil
		}
	}
	return nil, types.ErrPulseVoteNotFound
}

func (f *fakePulse) Delete(_ context.Context, phone, booth string) error {
	kept := f.votes[:0]
	for _, v := range f.votes {
		if v.Phone != phone || v.Booth != booth {
			kept = append(kept, v)
		}
	}
	f.votes = kept
	return nil
}

func (f *fakePulse) Create(_ context.Context, vote *types.PulseVote) error {
	f.votes = append(f.votes, vote)
	return nil
}

func (f *fakePulse) TallyByBooth(_ context.Context, booth string) (map[string]int, error) {
	tally := make(map[string]int)
	for _, v := range f.votes {
		if v.Booth == booth {
			tally[v.Choice]++
		}
	}
	return tally, nil
}

type testEnv struct {
	engine     *Engine
	sessions   *session.MemoryStore
	voters     *fakeVoters
	grievances *fakeGrievances
	members    *fakeMembers
	pulse      *fakePulse
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		sessions:   session.NewMemoryStore(),
		voters:     &fakeVoters{roll: make(map[string]*types.Voter)},
		grievances: &fakeGrievances{},
		members:    &fakeMembers{},
		pulse:      &fakePulse{},
	}

	profile := types.Profile{
		CandidateName: "Ramesh Kumaran",
		Constituency:  "Thenpalani",
		Parliament:    "Madurai",
	}

	env.engine = New(logger, profile, time.UTC, env.sessions,
		env.voters, env.grievances, env.members, env.pulse, opts...)

	return env
}

func (env *testEnv) send(t *testing.T, from, text string) []types.Directive {
	t.Helper()
	out, err := env.engine.Handle(context.Background(), types.Event{From: from, Text: text})
	require.NoError(t, err)
	return out
}

func (env *testEnv) state(t *testing.T, from string) string {
	t.Helper()
	sess, err := env.sessions.Get(context.Background(), from)
	require.NoError(t, err)
	require.NotNil(t, sess)
	return sess.State
}

func TestHandle_ResetKeywordStartsFresh(t *testing.T) {
	env := newTestEnv(t)

	out := env.send(t, "911234500001", "hi")
	require.Len(t, out, 1)
	assert.Equal(t, types.DirectiveButtons, out[0].Kind)
	assert.Contains(t, out[0].Body, "Voter ID")
	assert.Equal(t, string(StateAskHasEpic), env.state(t, "911234500001"))
}

func TestHandle_UnknownIdentityGetsWelcome(t *testing.T) {
	env := newTestEnv(t)

	out := env.send(t, "911234500002", "what is this")
	require.Len(t, out, 1)
	assert.Equal(t, types.DirectiveButtons, out[0].Kind)
	assert.Equal(t, string(StateAskHasEpic), env.state(t, "911234500002"))
}

func TestHandle_ExpiredSessionIsReplaced(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500003"

	stale := &session.Session{
		State:      string(StateMainMenu),
		LastActive: time.Now().Add(-session.IdleTimeout - time.Minute),
		Name:       "Karthik Raja",
	}
	require.NoError(t, env.sessions.Put(context.Background(), from, stale))

	out := env.send(t, from, "menu_1")
	require.Len(t, out, 1)
	assert.Equal(t, types.DirectiveButtons, out[0].Kind, "expired session should restart at the welcome")
	assert.Equal(t, string(StateAskHasEpic), env.state(t, from))
}

func TestHandle_EpicVerification(t *testing.T) {
	env := newTestEnv(t)
	env.voters.roll["TPN1234501"] = &types.Voter{
		VoterID:    "TPN1234501",
		Name:       "Karthik Raja",
		PartNumber: "101",
		Status:     types.VoterStatusVerified,
	}
	from := "911234500004"

	env.send(t, from, "hi")
	env.send(t, from, "btn_have_epic")
	assert.Equal(t, string(StateAskEpic), env.state(t, from))

	// Malformed identifier is rejected without a state change.
	out := env.send(t, from, "AB1")
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Body, "could not locate")
	assert.Equal(t, string(StateAskEpic), env.state(t, from))

	// Known identifier, lowercased on the way in.
	out = env.send(t, from, "tpn1234501")
	require.Len(t, out, 1)
	assert.Equal(t, types.DirectiveList, out[0].Kind)
	assert.Contains(t, out[0].Body, "Karthik Raja")
	assert.Contains(t, out[0].Body, "101")
	assert.Equal(t, string(StateMainMenu), env.state(t, from))
}

func TestHandle_UnknownEpicIsProvisioned(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500005"

	env.send(t, from, "hi")
	env.send(t, from, "btn_have_epic")
	env.send(t, from, "XYZ9876543")

	voter, ok := env.voters.roll["XYZ9876543"]
	require.True(t, ok, "unknown epic should be auto-provisioned")
	assert.Equal(t, guestName, voter.Name)
	assert.Equal(t, pendingBooth, voter.PartNumber)
	assert.Equal(t, botSource, voter.Source)
	assert.Equal(t, types.VoterStatusUnverified, voter.Status)
	assert.Equal(t, from, voter.Phone)

	assert.Equal(t, string(StateMainMenu), env.state(t, from))
}

func verifiedTo(t *testing.T, env *testEnv, from string) {
	t.Helper()
	env.voters.roll["TPN1234501"] = &types.Voter{
		VoterID: "TPN1234501", Name: "Karthik Raja", PartNumber: "101",
		Status: types.VoterStatusVerified,
	}
	env.send(t, from, "hi")
	env.send(t, from, "btn_have_epic")
	env.send(t, from, "TPN1234501")
}

func TestHandle_GrievanceWizardEndToEnd(t *testing.T) {
	env := newTestEnv(t, WithPicker(func(int) int { return 0 }))
	from := "911234500006"
	verifiedTo(t, env, from)

	env.send(t, from, "menu_1")
	assert.Equal(t, string(StateFlow1Cat), env.state(t, from))

	env.send(t, from, "cat_2")
	assert.Equal(t, string(StateFlow1Desc), env.state(t, from))

	env.send(t, from, "Large potholes near the school entrance")
	assert.Equal(t, string(StateFlow1Photo), env.state(t, from))

	env.send(t, from, "skip_photo")
	assert.Equal(t, string(StateFlow1Loc), env.state(t, from))

	out := env.send(t, from, "skip_loc")

	require.Len(t, env.grievances.created, 1)
	g := env.grievances.created[0]
	assert.True(t, strings.HasPrefix(g.ReferenceID, types.RefPrefixGrievance))
	assert.Len(t, g.ReferenceID, 8)
	assert.Equal(t, "cat_2", g.Category)
	assert.Equal(t, "Large potholes near the school entrance", g.Description)
	assert.Equal(t, "Karthik Raja", g.Name)
	assert.Equal(t, "101", g.Booth)
	assert.Equal(t, from, g.Phone)
	assert.Equal(t, types.StatusOpen, g.Status)
	assert.Equal(t, types.TypeGrievance, g.Type)
	assert.Nil(t, g.Latitude)
	assert.Nil(t, g.Longitude)

	// Confirmation carries the reference id, then the loop prompt.
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, g.ReferenceID)
	assert.Equal(t, loopPromptPause, out[1].Pause)
	assert.Equal(t, string(StateLoopPrompt), env.state(t, from))
}

func TestHandle_GrievanceWithLocation(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500007"
	verifiedTo(t, env, from)

	env.send(t, from, "menu_1")
	env.send(t, from, "cat_1")
	env.send(t, from, "Sewage overflow on 3rd street")
	env.send(t, from, "skip_photo")

	lat, lon := 9.9252, 78.1198
	_, err := env.engine.Handle(context.Background(), types.Event{
		From: from, Latitude: &lat, Longitude: &lon,
	})
	require.NoError(t, err)

	require.Len(t, env.grievances.created, 1)
	g := env.grievances.created[0]
	require.NotNil(t, g.Latitude)
	require.NotNil(t, g.Longitude)
	assert.Equal(t, lat, *g.Latitude)
	assert.Equal(t, lon, *g.Longitude)
}

func TestHandle_DeferredIdentityCapture(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500008"

	// Guest path: no voter id.
	env.send(t, from, "hi")
	env.send(t, from, "btn_no_epic")
	assert.Equal(t, string(StateMainMenu), env.state(t, from))

	env.send(t, from, "menu_1")
	env.send(t, from, "cat_5")
	env.send(t, from, "No teachers at the panchayat school")
	env.send(t, from, "skip_photo")

	// Location step is intercepted by the identity prompt instead of
	// finalizing.
	out := env.send(t, from, "skip_loc")
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Body, "Voter ID")
	assert.Empty(t, env.grievances.created)
	assert.Equal(t, string(StatePostFlowEpic), env.state(t, from))

	// Answering with an epic provisions it and resumes finalization with
	// the stashed skip decision.
	out = env.send(t, from, "NEW7654321")
	require.NotEmpty(t, out)

	require.Len(t, env.grievances.created, 1)
	g := env.grievances.created[0]
	require.NotNil(t, g.Epic)
	assert.Equal(t, "NEW7654321", *g.Epic)
	assert.True(t, strings.HasPrefix(g.ReferenceID, types.RefPrefixGrievance))

	_, provisioned := env.voters.roll["NEW7654321"]
	assert.True(t, provisioned)
}

func TestHandle_DeferredCaptureRunsOnce(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500009"

	env.send(t, from, "hi")
	env.send(t, from, "btn_no_epic")

	env.send(t, from, "menu_1")
	env.send(t, from, "cat_1")
	env.send(t, from, "First issue")
	env.send(t, from, "skip_photo")
	env.send(t, from, "skip_loc")

	// Declining the prompt still finalizes.
	env.send(t, from, "skip_post_epic")
	require.Len(t, env.grievances.created, 1)
	assert.Nil(t, env.grievances.created[0].Epic)

	// Second wizard in the same session finalizes directly.
	env.send(t, from, "btn_main_menu")
	env.send(t, from, "menu_1")
	env.send(t, from, "cat_2")
	env.send(t, from, "Second issue")
	env.send(t, from, "skip_photo")
	env.send(t, from, "skip_loc")

	require.Len(t, env.grievances.created, 2, "identity prompt must not intercept twice")
}

func TestHandle_SuggestionAndVolunteerRecords(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500010"
	verifiedTo(t, env, from)

	env.send(t, from, "menu_2")
	env.send(t, from, "Evening bus to the railway station")
	env.send(t, from, "skip_loc")

	require.Len(t, env.members.created, 1)
	sug := env.members.created[0]
	assert.True(t, strings.HasPrefix(sug.ReferenceID, types.RefPrefixSuggestion))
	assert.Equal(t, types.TypeSuggestion, sug.Type)
	assert.Equal(t, types.StatusPending, sug.Status)
	assert.Equal(t, "Evening bus to the railway station", sug.Suggestion)

	env.send(t, from, "btn_main_menu")
	env.send(t, from, "menu_3")
	env.send(t, from, "vol_1")
	env.send(t, from, "skip_loc")

	require.Len(t, env.members.created, 2)
	vol := env.members.created[1]
	assert.True(t, strings.HasPrefix(vol.ReferenceID, types.RefPrefixVolunteer))
	assert.Equal(t, types.TypeVolunteer, vol.Type)
	assert.Equal(t, types.StatusRegistered, vol.Status)
	assert.Equal(t, "vol_1", vol.Role)
}

func TestHandle_PhotoEvidenceRecord(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500011"
	verifiedTo(t, env, from)

	env.send(t, from, "menu_8")
	env.send(t, from, "pcat_4")

	_, err := env.engine.Handle(context.Background(), types.Event{
		From: from, Text: "Garbage not collected for a week", MediaRef: "media-abc-123",
	})
	require.NoError(t, err)
	env.send(t, from, "skip_loc")

	require.Len(t, env.grievances.created, 1)
	g := env.grievances.created[0]
	assert.True(t, strings.HasPrefix(g.ReferenceID, types.RefPrefixPhoto))
	assert.Equal(t, types.TypePhotoEvidence, g.Type)
	assert.Equal(t, "pcat_4", g.Category)
	require.NotNil(t, g.PhotoRef)
	assert.Equal(t, "media-abc-123", *g.PhotoRef)
}

func TestHandle_TrackReference(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500012"
	verifiedTo(t, env, from)

	env.grievances.created = append(env.grievances.created, &types.Grievance{
		ReferenceID: "GRV55555",
		Phone:       from,
		Name:        "Karthik Raja",
		Booth:       "101",
		Category:    "cat_2",
		Description: "Pothole",
		Status:      types.StatusInProgress,
		Type:        types.TypeGrievance,
		SubmittedOn: "01 Aug 2026",
	})

	env.send(t, from, "menu_5")
	assert.Equal(t, string(StateFlow5Ref), env.state(t, from))

	// Bad prefix keeps the state for a retry.
	out := env.send(t, from, "ABC12345")
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Body, "valid Reference ID")
	assert.Equal(t, string(StateFlow5Ref), env.state(t, from))

	// Known reference renders a status report.
	out = env.send(t, from, "grv55555")
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "GRV55555")
	assert.Contains(t, out[0].Body, "Roads & Infra")
	assert.Contains(t, out[0].Body, "In Progress")
	assert.Equal(t, string(StateLoopPrompt), env.state(t, from))

	// Valid prefix with no record.
	env.send(t, from, "btn_main_menu")
	env.send(t, from, "menu_5")
	out = env.send(t, from, "GRV00000")
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "could not find any record")
}

func TestHandle_LoopPromptVariants(t *testing.T) {
	for variant, wantSubstr := range map[int]string{
		0: "Ward Connect",
		1: "Movement Networks",
		2: "Join the Movement",
	} {
		env := newTestEnv(t, WithPicker(func(int) int { return variant }))
		from := "911234500013"
		verifiedTo(t, env, from)

		env.send(t, from, "menu_2")
		env.send(t, from, "More street lights")
		out := env.send(t, from, "skip_loc")

		require.Len(t, out, 2)
		assert.Contains(t, out[1].Body, wantSubstr)
		assert.Equal(t, loopPromptPause, out[1].Pause)
	}
}

func TestHandle_UnknownStateRecovers(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500014"

	require.NoError(t, env.sessions.Put(context.Background(), from, &session.Session{
		State:      "FLOW6_GHOST",
		LastActive: time.Now(),
	}))

	out := env.send(t, from, "anything")
	require.Len(t, out, 1)
	assert.Equal(t, types.DirectiveButtons, out[0].Kind)
	assert.Equal(t, string(StateAskHasEpic), env.state(t, from))
}

func TestHandle_ActivitySummary(t *testing.T) {
	env := newTestEnv(t)
	from := "911234500015"
	verifiedTo(t, env, from)

	env.grievances.created = append(env.grievances.created,
		&types.Grievance{Phone: from, Status: types.StatusOpen},
		&types.Grievance{Phone: from, Status: types.StatusResolved},
	)
	env.members.created = append(env.members.created,
		&types.MemberRequest{Phone: from, Type: types.TypeVolunteer, Role: "vol_2"},
	)

	out := env.send(t, from, "menu_6")
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Body, "Issues Raised: 2")
	assert.Contains(t, out[0].Body, "Resolved: 1")
	assert.Contains(t, out[0].Body, "Registered")
	assert.Contains(t, out[0].Body, "Organise Meetings")
}
