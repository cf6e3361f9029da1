package draft

import (
	"math/rand"
	"sync"
	"time"

	"github.com/belmegatron/onehead/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Phase is the coordinator's lifecycle stage.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseNominating      Phase = "nominating"
	PhaseCaptainsElected Phase = "captains_elected"
	PhasePicking         Phase = "picking"
	PhaseComplete        Phase = "complete"
)

// StateError reports a draft that cannot proceed, e.g. nominations that
// failed to produce two captains.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return "draft state error: " + e.Reason
}

// Notifier receives human-readable progress lines for the channel the draft
// runs in.
type Notifier interface {
	Notify(msg string)
}

// Options configure a single draft run.
type Options struct {
	NominationWindow time.Duration
	PickWindow       time.Duration
	Rng              *rand.Rand
	Notifier         Notifier
	Logger           zerolog.Logger
}

type commandKind int

const (
	cmdNominate commandKind = iota
	cmdPick
)

type command struct {
	kind   commandKind
	actor  string
	target string
	reply  chan outcome
}

type outcome struct {
	accepted bool
	message  string
}

// Draft runs a captain's-mode draft over a fixed roster snapshot. All state
// is owned by the single goroutine inside Run; external nominate/pick calls
// are delivered through the inbox and processed in arrival order, so no two
// submissions for the same turn ever race.
type Draft struct {
	id       string
	roster   map[string]domain.Player
	order    []string // roster names in signup order
	window   time.Duration
	pickWait time.Duration
	rng      *rand.Rand
	notifier Notifier
	logger   zerolog.Logger

	inbox chan command
	done  chan struct{}

	mu       sync.Mutex
	phase    Phase
	captains [2]string

	votes    map[string]int
	hasVoted map[string]bool
}

// New builds a draft over the given roster snapshot. The roster is copied;
// later mutation of the live signup pool does not affect the draft.
func New(roster []domain.Player, opts Options) *Draft {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	id := uuid.NewString()
	d := &Draft{
		id:       id,
		roster:   make(map[string]domain.Player, len(roster)),
		order:    make([]string, 0, len(roster)),
		window:   opts.NominationWindow,
		pickWait: opts.PickWindow,
		rng:      opts.Rng,
		notifier: opts.Notifier,
		logger:   opts.Logger.With().Str("draft_id", id).Logger(),
		inbox:    make(chan command),
		done:     make(chan struct{}),
		phase:    PhaseIdle,
		votes:    make(map[string]int),
		hasVoted: make(map[string]bool),
	}
	for _, p := range roster {
		d.roster[p.Name] = p
		d.order = append(d.order, p.Name)
	}
	return d
}

// ID is the unique identifier for this draft session.
func (d *Draft) ID() string {
	return d.id
}

// Phase returns the current lifecycle stage.
func (d *Draft) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Captains returns the elected captains, empty strings before election.
func (d *Draft) Captains() (string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.captains[0], d.captains[1]
}

func (d *Draft) setPhase(p Phase) {
	d.mu.Lock()
	d.phase = p
	d.mu.Unlock()
}

func (d *Draft) setCaptains(c1, c2 string) {
	d.mu.Lock()
	d.captains = [2]string{c1, c2}
	d.mu.Unlock()
}

// Nominate submits a nomination vote. The returned message is user-facing;
// accepted is false for soft rejections (self-vote, double vote, unknown
// candidate, wrong phase).
func (d *Draft) Nominate(voter, candidate string) (string, bool) {
	out := d.submit(command{kind: cmdNominate, actor: voter, target: candidate})
	return out.message, out.accepted
}

// Pick submits a captain's pick for the current turn.
func (d *Draft) Pick(captain, player string) (string, bool) {
	out := d.submit(command{kind: cmdPick, actor: captain, target: player})
	return out.message, out.accepted
}

func (d *Draft) submit(c command) outcome {
	c.reply = make(chan outcome, 1)
	select {
	case d.inbox <- c:
		select {
		case out := <-c.reply:
			return out
		case <-d.done:
			return outcome{message: "the draft has ended"}
		}
	case <-d.done:
		return outcome{message: "the draft has ended"}
	}
}

func (d *Draft) notify(msg string) {
	if d.notifier != nil {
		d.notifier.Notify(msg)
	}
}
