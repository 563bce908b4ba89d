package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"example.com/mastermind/internal/game"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("game not found")

type Config struct {
	// Defaults fill whatever a create request leaves unset.
	Defaults      game.Settings
	SupplyTimeout time.Duration
	// IdleTTL is how long an untouched session survives a sweep; 0 keeps
	// sessions until they are deleted.
	IdleTTL time.Duration
}

// Service creates games and routes guesses to them.
type Service struct {
	cfg    Config
	store  Store
	remote game.SupplierFactory
	log    *slog.Logger
	now    func() time.Time
}

// NewService wires a registry. remote may be nil, in which case games asking
// for the remote source fail validation.
func NewService(cfg Config, store Store, remote game.SupplierFactory, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		remote: remote,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req game.Settings) (*Session, error) {
	settings := withDefaults(req, s.cfg.Defaults)

	b := game.NewBuilder()
	if s.remote != nil {
		b.RemoteSupplier(s.remote)
	}
	if s.cfg.SupplyTimeout > 0 {
		b.SupplyTimeout(s.cfg.SupplyTimeout)
	}

	g, err := b.Apply(settings).Build(ctx)
	if err != nil {
		s.log.Warn("game create failed", "source", settings.Source, "err", err)
		return nil, err
	}

	sess := newSession(uuid.NewString(), g, s.now())
	s.store.Put(sess)

	s.log.Info("game created",
		"game_id", sess.id,
		"strategy", g.Strategy().String(),
		"source", settings.Source,
		"code_length", g.CodeLength(),
		"num_colors", g.NumColors(),
		"max_attempts", g.MaxAttempts(),
	)
	return sess, nil
}

func (s *Service) Get(id string) (*Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Service) Guess(id string, raw []int) (game.Feedback, View, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, View{}, err
	}

	fb, view, err := sess.Guess(raw, s.now())
	if err != nil {
		return nil, view, err
	}
	if view.State.Terminal() {
		s.log.Info("game finished", "game_id", id, "state", view.State, "moves", view.MovesCompleted)
	}
	return fb, view, nil
}

func (s *Service) Delete(id string) error {
	if !s.store.Delete(id) {
		return ErrNotFound
	}
	return nil
}

// Sweep drops sessions idle for longer than IdleTTL.
func (s *Service) Sweep() int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	now := s.now()
	n := s.store.DeleteIf(func(sess *Session) bool {
		return sess.idleSince(now) > s.cfg.IdleTTL
	})
	if n > 0 {
		s.log.Info("idle games evicted", "count", n, "live", s.store.Len())
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || s.cfg.IdleTTL <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// withDefaults fills the zero fields of req from def. A literal secret in
// the request suppresses the default source so the two never conflict.
func withDefaults(req, def game.Settings) game.Settings {
	out := req
	if out.CodeLength == 0 && out.Secret == nil {
		out.CodeLength = def.CodeLength
	}
	if out.NumColors == 0 {
		out.NumColors = def.NumColors
	}
	if out.MaxAttempts == 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.Strategy == 0 {
		out.Strategy = def.Strategy
	}
	if out.Source == "" && out.Secret == nil {
		out.Source = def.Source
	}
	return out
}
