package documents

import (
	"context"
	"time"

	"meditrack/internal/domain/history"
	"meditrack/internal/ports/store"
)

type historyDoc struct {
	MedicationID flexString `json:"medicationId"`
	UserID       flexString `json:"userId"`
	Name         flexString `json:"name"`
	Dose         flexInt    `json:"dose"`
	Time         flexString `json:"time"`
	Frequency    flexString `json:"frequency"`
	Status       flexString `json:"status"`
	Date         flexTime   `json:"date"`
}

type historyRecord struct {
	MedicationID string `json:"medicationId"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Dose         int    `json:"dose"`
	Time         string `json:"time"`
	Frequency    string `json:"frequency"`
	Status       string `json:"status"`
	Date         string `json:"date"`
}

type HistoryRepo struct {
	store store.Store
	now   Clock
}

func NewHistoryRepo(s store.Store, now Clock) *HistoryRepo {
	if now == nil {
		now = time.Now
	}
	return &HistoryRepo{store: s, now: now}
}

func (r *HistoryRepo) Append(ctx context.Context, rec history.Record) (string, error) {
	return r.store.Create(ctx, CollectionHistory, historyRecord{
		MedicationID: rec.MedicationID,
		UserID:       rec.UserID,
		Name:         rec.Name,
		Dose:         rec.Dose,
		Time:         rec.Time,
		Frequency:    rec.Frequency,
		Status:       rec.Status,
		Date:         rec.Date,
	})
}

func (r *HistoryRepo) ListByUser(ctx context.Context, userID string) ([]history.Record, error) {
	docs, err := r.store.List(ctx, CollectionHistory, byUser(userID, "date", true))
	if err != nil {
		return nil, err
	}
	today := r.now()
	out := make([]history.Record, 0, len(docs))
	for _, d := range docs {
		var doc historyDoc
		decode(d.Data, &doc)
		out = append(out, normalizeHistory(d.ID, doc, today))
	}
	return out, nil
}

// normalizeHistory: sin fecha = hoy, sin estado = pending.
func normalizeHistory(id string, d historyDoc, today time.Time) history.Record {
	date := d.Date.Value
	if date.IsZero() {
		date = today
	}
	status := string(d.Status)
	switch status {
	case "pending", "taken", "missed":
	default:
		status = "pending"
	}
	return history.Record{
		ID:           id,
		MedicationID: string(d.MedicationID),
		UserID:       string(d.UserID),
		Name:         string(d.Name),
		Dose:         d.Dose.Value,
		Time:         string(d.Time),
		Frequency:    string(d.Frequency),
		Status:       status,
		Date:         date.Format(dateLayout),
	}
}
