package reminders

import (
	"context"
	"sync"
	"time"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

const notifyTimeout = 10 * time.Second

type stopper interface {
	Stop() bool
}

type trigger struct {
	seq  uint64
	stop stopper
}

// Scheduler mantiene un trigger local por recordatorio, indexado por id.
// Cada Reset cancela todo lo pendiente y vuelve a programar la lista completa.
type Scheduler struct {
	notifier notify.Notifier
	log      logger.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) stopper

	// onFire se llama fuera del lock cada vez que un recordatorio pasa a Fired.
	onFire func(id string)

	mu       sync.Mutex
	seq      uint64
	triggers map[string]trigger
	states   map[string]State
	closed   bool
}

func NewScheduler(n notify.Notifier, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		notifier: n,
		log:      log,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		triggers: map[string]trigger{},
		states:   map[string]State{},
	}
}

// Reset instala exactamente un trigger por recordatorio de list.
// Los vencidos (delay <= 0) se disparan en el momento. Un recordatorio ya
// disparado no se vuelve a disparar mientras siga en la lista.
func (s *Scheduler) Reset(list []Reminder) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	for id, t := range s.triggers {
		t.stop.Stop()
		s.states[id] = StateCancelled
	}
	s.triggers = make(map[string]trigger, len(list))

	now := s.now()
	present := make(map[string]struct{}, len(list))
	var due []Reminder

	for _, r := range list {
		if r.ID == "" {
			continue
		}
		present[r.ID] = struct{}{}

		if s.states[r.ID] == StateFired {
			continue
		}
		if _, dup := s.triggers[r.ID]; dup {
			continue
		}

		delay := r.Time.Sub(now)
		if delay <= 0 {
			s.states[r.ID] = StateFired
			due = append(due, r)
			continue
		}

		s.seq++
		seq, rem := s.seq, r
		s.triggers[r.ID] = trigger{
			seq:  seq,
			stop: s.afterFunc(delay, func() { s.fire(rem, seq) }),
		}
		s.states[r.ID] = StateScheduled
	}

	for id := range s.states {
		if _, ok := present[id]; !ok {
			delete(s.states, id)
		}
	}
	s.mu.Unlock()

	for _, r := range due {
		s.fired(r.ID)
		s.notify(r)
	}
}

// MarkFired siembra recordatorios ya disparados por una instancia anterior.
// Solo tiene efecto antes de que el id tenga estado propio.
func (s *Scheduler) MarkFired(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.states[id]; !ok {
			s.states[id] = StateFired
		}
	}
}

// Cancel baja el trigger de un recordatorio si sigue pendiente.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.triggers[id]
	if !ok {
		return
	}
	t.stop.Stop()
	delete(s.triggers, id)
	s.states[id] = StateCancelled
}

// Pending devuelve la cantidad de triggers activos.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

func (s *Scheduler) State(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[id]
}

// Close cancela todo de forma sincrónica. Después de Close, Reset no hace nada.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, t := range s.triggers {
		t.stop.Stop()
		s.states[id] = StateCancelled
	}
	s.triggers = map[string]trigger{}
}

func (s *Scheduler) fire(r Reminder, seq uint64) {
	s.mu.Lock()
	t, ok := s.triggers[r.ID]
	if s.closed || !ok || t.seq != seq {
		// Reemplazado o cancelado mientras el timer vencía.
		s.mu.Unlock()
		return
	}
	delete(s.triggers, r.ID)
	s.states[r.ID] = StateFired
	s.mu.Unlock()

	s.fired(r.ID)
	s.notify(r)
}

func (s *Scheduler) fired(id string) {
	if s.onFire != nil {
		s.onFire(id)
	}
}

func (s *Scheduler) notify(r Reminder) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	err := s.notifier.Notify(ctx, notify.Notification{
		UserID: r.UserID,
		Title:  NotificationTitle,
		Body:   notificationBody(r.Medication),
	})
	if err != nil {
		// Best-effort: no se reintenta ni se propaga.
		s.log.Debug("reminder notification dropped", map[string]any{
			"reminder_id": r.ID,
			"error":       err,
		})
	}
}
