package reminders

import (
	"context"
	"errors"
	"strings"
	"sync"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

var (
	ErrManagerClosed = errors.New("reminder manager closed")
)

type watch struct {
	cancel context.CancelFunc
	sched  *Scheduler
	done   chan struct{}
}

// Manager mantiene un Scheduler por usuario alimentado por la suscripción
// a sus recordatorios. Es el dueño de todos los timers del proceso.
type Manager struct {
	repo     Repository
	notifier notify.Notifier
	log      logger.Logger

	newScheduler func() *Scheduler

	mu      sync.Mutex
	watches map[string]*watch
	closed  bool

	// fired recuerda por usuario los recordatorios ya disparados, para que
	// un Unwatch seguido de Watch no los vuelva a enviar.
	firedMu sync.Mutex
	fired   map[string]map[string]struct{}
}

func NewManager(repo Repository, n notify.Notifier, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(map[string]any{"module": "reminders"})

	m := &Manager{
		repo:     repo,
		notifier: n,
		log:      log,
		watches:  map[string]*watch{},
		fired:    map[string]map[string]struct{}{},
	}
	m.newScheduler = func() *Scheduler { return NewScheduler(n, log) }
	return m
}

// Watch arranca (una sola vez por usuario) la suscripción y el scheduler.
// La suscripción sobrevive al ctx del llamador: se corta con Unwatch o Close.
func (m *Manager) Watch(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if _, ok := m.watches[userID]; ok {
		return nil
	}

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	updates, err := m.repo.Watch(wctx, userID)
	if err != nil {
		cancel()
		return err
	}

	sched := m.newScheduler()
	sched.onFire = func(id string) { m.markFired(userID, id) }
	sched.MarkFired(m.firedIDs(userID))

	w := &watch{
		cancel: cancel,
		sched:  sched,
		done:   make(chan struct{}),
	}
	m.watches[userID] = w

	log := m.log.With(map[string]any{"user_id": userID})
	go func() {
		defer close(w.done)
		for upd := range updates {
			if upd.Err != nil {
				log.Warn("reminders subscription error", map[string]any{"error": upd.Err})
				continue
			}
			m.pruneFired(userID, upd.Reminders)
			w.sched.Reset(upd.Reminders)
		}
	}()

	log.Info("reminders watch started", nil)
	return nil
}

// Unwatch corta la suscripción y cancela todos los triggers del usuario.
func (m *Manager) Unwatch(userID string) {
	m.mu.Lock()
	w, ok := m.watches[userID]
	delete(m.watches, userID)
	m.mu.Unlock()

	if ok {
		stop(w)
	}
}

func (m *Manager) Watching(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.watches[userID]
	return ok
}

// Cancel baja el trigger de un recordatorio puntual, si el usuario tiene watch.
func (m *Manager) Cancel(userID, reminderID string) {
	if s := m.scheduler(userID); s != nil {
		s.Cancel(reminderID)
	}
}

// State del trigger de un recordatorio; StateUnknown si no hay watch.
func (m *Manager) State(userID, reminderID string) State {
	if s := m.scheduler(userID); s != nil {
		return s.State(reminderID)
	}
	return StateUnknown
}

func (m *Manager) Pending(userID string) int {
	if s := m.scheduler(userID); s != nil {
		return s.Pending()
	}
	return 0
}

// Close corta todas las suscripciones y cancela todos los triggers.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	ws := m.watches
	m.watches = map[string]*watch{}
	m.mu.Unlock()

	for _, w := range ws {
		stop(w)
	}
}

func (m *Manager) scheduler(userID string) *Scheduler {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.watches[userID]; ok {
		return w.sched
	}
	return nil
}

func stop(w *watch) {
	w.cancel()
	w.sched.Close()
	<-w.done
}

func (m *Manager) markFired(userID, id string) {
	m.firedMu.Lock()
	defer m.firedMu.Unlock()
	set, ok := m.fired[userID]
	if !ok {
		set = map[string]struct{}{}
		m.fired[userID] = set
	}
	set[id] = struct{}{}
}

func (m *Manager) firedIDs(userID string) []string {
	m.firedMu.Lock()
	defer m.firedMu.Unlock()
	out := make([]string, 0, len(m.fired[userID]))
	for id := range m.fired[userID] {
		out = append(out, id)
	}
	return out
}

// pruneFired olvida los ids que ya no están en la lista del usuario.
func (m *Manager) pruneFired(userID string, list []Reminder) {
	m.firedMu.Lock()
	defer m.firedMu.Unlock()
	set := m.fired[userID]
	if len(set) == 0 {
		return
	}
	present := make(map[string]struct{}, len(list))
	for _, r := range list {
		present[r.ID] = struct{}{}
	}
	for id := range set {
		if _, ok := present[id]; !ok {
			delete(set, id)
		}
	}
}
