package documents

import (
	"context"
	"encoding/json"

	"meditrack/internal/domain/reminders"
	"meditrack/internal/ports/store"
)

type reminderDoc struct {
	UserID     flexString `json:"userId"`
	Medication flexString `json:"medication"`
	Time       flexTime   `json:"time"`
	CreatedAt  flexTime   `json:"createdAt"`
}

type reminderRecord struct {
	UserID     string `json:"userId"`
	Medication string `json:"medication"`
	Time       string `json:"time"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type ReminderRepo struct {
	store store.Store
}

func NewReminderRepo(s store.Store) *ReminderRepo {
	return &ReminderRepo{store: s}
}

func (r *ReminderRepo) Create(ctx context.Context, rem reminders.Reminder) (string, error) {
	return r.store.Create(ctx, CollectionReminders, reminderRecord{
		UserID:     rem.UserID,
		Medication: rem.Medication,
		Time:       formatTime(rem.Time),
		CreatedAt:  formatTime(rem.CreatedAt),
	})
}

func (r *ReminderRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionReminders, id, &raw); err != nil {
		return reminders.Reminder{}, notFound(err, reminders.ErrNotFound)
	}
	var doc reminderDoc
	decode(raw, &doc)
	return normalizeReminder(id, doc), nil
}

func (r *ReminderRepo) ListByUser(ctx context.Context, userID string) ([]reminders.Reminder, error) {
	docs, err := r.store.List(ctx, CollectionReminders, remindersQuery(userID))
	if err != nil {
		return nil, err
	}
	return toReminders(docs), nil
}

func (r *ReminderRepo) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Remove(ctx, CollectionReminders, id), reminders.ErrNotFound)
}

// Watch adapta la suscripción del store a listas tipadas.
func (r *ReminderRepo) Watch(ctx context.Context, userID string) (<-chan reminders.ListUpdate, error) {
	snaps, err := r.store.Subscribe(ctx, CollectionReminders, remindersQuery(userID))
	if err != nil {
		return nil, err
	}

	out := make(chan reminders.ListUpdate, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			upd := reminders.ListUpdate{Err: snap.Err}
			if snap.Err == nil {
				upd.Reminders = toReminders(snap.Documents)
			}
			select {
			case out <- upd:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func remindersQuery(userID string) store.Query {
	return byUser(userID, "time", false)
}

func toReminders(docs []store.Document) []reminders.Reminder {
	out := make([]reminders.Reminder, 0, len(docs))
	for _, d := range docs {
		var doc reminderDoc
		decode(d.Data, &doc)
		out = append(out, normalizeReminder(d.ID, doc))
	}
	return out
}

// normalizeReminder: un instante ilegible queda en cero (vencido) y
// createdAt faltante toma el instante del aviso.
func normalizeReminder(id string, d reminderDoc) reminders.Reminder {
	created := d.CreatedAt.Value
	if created.IsZero() {
		created = d.Time.Value
	}
	return reminders.Reminder{
		ID:         id,
		UserID:     string(d.UserID),
		Medication: string(d.Medication),
		Time:       d.Time.Value.UTC(),
		CreatedAt:  created.UTC(),
	}
}
