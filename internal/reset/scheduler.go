// internal/reset/scheduler.go
//
// New-game request scheduler with a single notification (toast) slot.
// Responsibilities:
//   - Start a session right away when no toast is showing.
//   - While a toast is showing, queue at most one deferred start and run it
//     when the toast goes away.
//   - Turn the Threshold-th press inside one visible-toast window into a
//     danger toast and a cooldown during which requests are ignored.
//
// The scheduler owns no timers. Every transition returns Effects telling the
// caller what to do (start a session, show a toast, arm timers); timer
// expiries come back through Dismiss and CooldownExpired carrying the
// generation they were armed with, so superseded timers are dropped.

package reset

import "time"

// Phase is the scheduler state.
type Phase uint8

const (
	Idle      Phase = iota // no toast visible
	Showing                // toast visible, requests are counted and queued
	Penalized              // cooldown running, requests ignored
)

func (p Phase) String() string {
	switch p {
	case Showing:
		return "showing"
	case Penalized:
		return "penalized"
	default:
		return "idle"
	}
}

// ToastKind picks the toast styling.
type ToastKind uint8

const (
	Success ToastKind = iota
	Danger
)

func (k ToastKind) String() string {
	if k == Danger {
		return "danger"
	}
	return "success"
}

// MarshalText lets toast kinds travel as "success"/"danger" in JSON.
func (k ToastKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Toast is the notification currently in the slot.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
	Gen     uint64    `json:"gen"`
}

// Timer asks the caller to report back after a delay with Gen.
type Timer struct {
	Gen   uint64
	After time.Duration
}

// Effects is what a transition asks the caller to perform, in field order.
type Effects struct {
	StartSession bool
	Toast        *Toast
	Dismiss      *Timer
	Cooldown     *Timer
}

// Config tunes the scheduler.
type Config struct {
	ToastDuration  time.Duration
	Cooldown       time.Duration
	Threshold      int
	SuccessMessage string
	DangerMessage  string
}

// DefaultConfig matches the web client: 3s toasts, 4th press penalised for 5s.
func DefaultConfig() Config {
	return Config{
		ToastDuration:  3 * time.Second,
		Cooldown:       5 * time.Second,
		Threshold:      4,
		SuccessMessage: "New word chosen!",
		DangerMessage:  "Lizard, lizard, lizard, lizard, lizard! 🦎",
	}
}

// Scheduler is not safe for concurrent use.
type Scheduler struct {
	cfg         Config
	phase       Phase
	pending     int
	queued      bool
	toast       *Toast
	toastGen    uint64
	cooldownGen uint64
}

// New builds an idle scheduler. Zero config fields fall back to defaults.
func New(cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = def.ToastDuration
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.SuccessMessage == "" {
		cfg.SuccessMessage = def.SuccessMessage
	}
	if cfg.DangerMessage == "" {
		cfg.DangerMessage = def.DangerMessage
	}
	return &Scheduler{cfg: cfg}
}

func (s *Scheduler) Phase() Phase  { return s.phase }
func (s *Scheduler) Pending() int  { return s.pending }
func (s *Scheduler) Queued() bool  { return s.queued }
func (s *Scheduler) Enabled() bool { return s.phase != Penalized }

// Toast returns the visible toast, if any.
func (s *Scheduler) Toast() (Toast, bool) {
	if s.toast == nil {
		return Toast{}, false
	}
	return *s.toast, true
}

// ButtonLabel is the new-game button caption.
func (s *Scheduler) ButtonLabel() string {
	if s.phase == Penalized {
		return "🦎"
	}
	return "New Game"
}

// Request handles one new-game press.
func (s *Scheduler) Request() Effects {
	switch s.phase {
	case Penalized:
		return Effects{}
	case Showing:
		s.pending++
		if s.pending == s.cfg.Threshold {
			return s.penalize()
		}
		s.queued = true
		return Effects{}
	}
	return s.start()
}

// Dismiss hides the toast with generation gen, either on timeout or on
// user dismissal. A queued request then runs exactly once.
func (s *Scheduler) Dismiss(gen uint64) Effects {
	if s.toast == nil || s.toast.Gen != gen {
		return Effects{}
	}
	s.toast = nil
	if s.phase == Penalized {
		return Effects{}
	}
	if s.queued {
		return s.start()
	}
	s.phase = Idle
	s.pending = 0
	return Effects{}
}

// CooldownExpired ends a penalty armed with generation gen. The request
// that triggered the penalty is not honoured.
func (s *Scheduler) CooldownExpired(gen uint64) Effects {
	if s.phase != Penalized || s.cooldownGen != gen {
		return Effects{}
	}
	s.pending = 0
	s.queued = false
	s.phase = Idle
	if s.toast != nil {
		s.phase = Showing
	}
	return Effects{}
}

func (s *Scheduler) start() Effects {
	s.pending = 0
	s.queued = false
	s.phase = Showing
	fx := s.show(Success, s.cfg.SuccessMessage)
	fx.StartSession = true
	return fx
}

func (s *Scheduler) penalize() Effects {
	s.queued = false
	s.phase = Penalized
	s.cooldownGen++
	fx := s.show(Danger, s.cfg.DangerMessage)
	fx.Cooldown = &Timer{Gen: s.cooldownGen, After: s.cfg.Cooldown}
	return fx
}

// show replaces the toast; the previous toast's dismiss timer becomes stale.
func (s *Scheduler) show(kind ToastKind, msg string) Effects {
	s.toastGen++
	s.toast = &Toast{Kind: kind, Message: msg, Gen: s.toastGen}
	t := *s.toast
	return Effects{
		Toast:   &t,
		Dismiss: &Timer{Gen: t.Gen, After: s.cfg.ToastDuration},
	}
}
