package bot

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"boothvoice/internal/session"
	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
)

// VoterDirectory is the roll lookup/provision contract (§identity).
type VoterDirectory interface {
	Voter(ctx context.Context, voterID string) (*types.Voter, error)
	Create(ctx context.Context, voter *types.Voter) error
}

type GrievanceStore interface {
	Create(ctx context.Context, grievance *types.Grievance) error
	ByReference(ctx context.Context, referenceID string) (*types.Grievance, error)
	CountByPhone(ctx context.Context, phone string) (int64, error)
	CountByPhoneAndStatus(ctx context.Context, phone string, status types.SubmissionStatus) (int64, error)
}

type MemberRequestStore interface {
	Create(ctx context.Context, request *types.MemberRequest) error
	ByReference(ctx context.Context, referenceID string) (*types.MemberRequest, error)
	CountByPhoneAndType(ctx context.Context, phone string, requestType types.SubmissionType) (int64, error)
	VolunteerByPhone(ctx context.Context, phone string) (*types.MemberRequest, error)
}

type PulseStore interface {
	Vote(ctx context.Context, phone, booth string) (*types.PulseVote, error)
	Delete(ctx context.Context, phone, booth string) error
	Create(ctx context.Context, vote *types.PulseVote) error
	TallyByBooth(ctx context.Context, booth string) (map[string]int, error)
}

const lockShards = 64

// loopPromptPause is the delivery delay carried on the loop prompt so it
// trails the confirmation it follows.
const loopPromptPause = 2 * time.Second

// Engine is the conversational state machine. One Handle call processes
// one inbound event; events for the same identity are serialized, events
// for different identities run concurrently.
type Engine struct {
	logger   *logrus.Logger
	profile  types.Profile
	sessions session.Store

	voters     VoterDirectory
	grievances GrievanceStore
	members    MemberRequestStore
	pulse      PulseStore

	loc  *time.Location
	now  func() time.Time
	pick func(n int) int

	locks [lockShards]sync.Mutex
}

type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPicker overrides the uniform choice used for the loop prompt.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

func New(
	logger *logrus.Logger,
	profile types.Profile,
	loc *time.Location,
	sessions session.Store,
	voters VoterDirectory,
	grievances GrievanceStore,
	members MemberRequestStore,
	pulse PulseStore,
	opts ...Option,
) *Engine {
	e := &Engine{
		logger:     logger,
		profile:    profile,
		sessions:   sessions,
		voters:     voters,
		grievances: grievances,
		members:    members,
		pulse:      pulse,
		loc:        loc,
		now:        time.Now,
		pick:       rand.Intn,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) lock(identity string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(identity))
	return &e.locks[h.Sum32()%lockShards]
}

// Handle runs one inbound event through the machine and returns the
// outbound directives. On error the stored session is left as it was
// before the event, so the user's next message retries the same step.
func (e *Engine) Handle(ctx context.Context, ev types.Event) ([]types.Directive, error) {
	mu := e.lock(ev.From)
	mu.Lock()
	defer mu.Unlock()

	now := e.now()

	if IsReset(ev.Text) {
		fresh := &session.Session{State: string(StateAskHasEpic), LastActive: now}
		if err := e.sessions.Put(ctx, ev.From, fresh); err != nil {
			return nil, fmt.Errorf("reset session: %w", err)
		}
		return e.welcome(), nil
	}

	sess, err := e.sessions.Get(ctx, ev.From)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess == nil {
		sess = &session.Session{State: string(StateAskHasEpic), LastActive: now}
		if err := e.sessions.Put(ctx, ev.From, sess); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		return e.welcome(), nil
	}

	// Refresh last_active up front, mirroring access-time touch; the
	// handler then works on the local copy.
	if err := e.sessions.Touch(ctx, ev.From, now); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	sess.LastActive = now

	out, err := e.dispatch(ctx, sess, ev)
	if err != nil {
		return nil, err
	}

	if err := e.sessions.Put(ctx, ev.From, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, sess *session.Session, ev types.Event) ([]types.Directive, error) {
	state := State(sess.State)

	if flow, ok := locStates[state]; ok {
		return e.handleLocationOrSkip(ctx, sess, ev, flow)
	}

	switch state {
	case StateAskHasEpic:
		return e.handleAskHasEpic(sess, ev), nil
	case StateAskEpic:
		return e.handleAskEpic(ctx, sess, ev)
	case StateMainMenu:
		return e.handleMainMenu(ctx, sess, ev)
	case StateFlow1Cat:
		return e.handleGrievanceCategory(sess, ev), nil
	case StateFlow1Desc:
		return e.handleGrievanceDescription(sess, ev), nil
	case StateFlow1Photo:
		return e.handleGrievancePhoto(sess, ev), nil
	case StateFlow2Sugg:
		return e.handleSuggestionText(sess, ev), nil
	case StateFlow3Mode:
		return e.handleVolunteerMode(sess, ev), nil
	case StateFlow5Ref:
		return e.handleTrackReference(ctx, sess, ev)
	case StateFlow7Poll:
		return e.handlePollVote(ctx, sess, ev)
	case StateFlow8Cat:
		return e.handlePhotoCategory(sess, ev), nil
	case StateFlow8Photo:
		return e.handlePhotoCapture(sess, ev), nil
	case StateFlow9Networks:
		return e.handleNetworks(sess, ev), nil
	case StatePostFlowEpic:
		return e.handlePostFlowEpic(ctx, sess, ev)
	case StateLoopPrompt:
		return e.handleLoopPrompt(ctx, sess, ev)
	case StateDone:
		return e.loopPrompt(sess), nil
	default:
		// Universal recovery: unknown or corrupt state restarts the
		// conversation.
		e.logger.WithFields(logrus.Fields{
			"state":    sess.State,
			"identity": ev.From,
		}).Warn("unrecognized session state, resetting")

		*sess = session.Session{State: string(StateAskHasEpic), LastActive: sess.LastActive}
		return e.welcome(), nil
	}
}
