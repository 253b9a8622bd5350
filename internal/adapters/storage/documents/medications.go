package documents

import (
	"context"
	"encoding/json"

	"meditrack/internal/domain/medications"
	"meditrack/internal/ports/store"
)

type medicationDoc struct {
	UserID    flexString `json:"userId"`
	Name      flexString `json:"name"`
	Dose      flexInt    `json:"dose"`
	Time      flexString `json:"time"`
	Frequency flexString `json:"frequency"`
	Status    flexString `json:"status"`
	CreatedAt flexTime   `json:"createdAt"`
}

type medicationRecord struct {
	UserID    string         `json:"userId"`
	Name      string         `json:"name"`
	Dose      int            `json:"dose"`
	Time      string         `json:"time"`
	Frequency string         `json:"frequency"`
	Status    string         `json:"status"`
	Counters  map[string]int `json:"counters"`
	CreatedAt string         `json:"createdAt,omitempty"`
}

type MedicationRepo struct {
	store store.Store
}

func NewMedicationRepo(s store.Store) *MedicationRepo {
	return &MedicationRepo{store: s}
}

func (r *MedicationRepo) Create(ctx context.Context, m medications.Medication) (string, error) {
	return r.store.Create(ctx, CollectionMedications, medicationRecord{
		UserID:    m.UserID,
		Name:      m.Name,
		Dose:      m.Dose,
		Time:      m.Time,
		Frequency: string(m.Frequency),
		Status:    string(m.Status),
		Counters:  countersMap(m.Counters),
		CreatedAt: formatTime(m.CreatedAt),
	})
}

func (r *MedicationRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionMedications, id, &raw); err != nil {
		return medications.Medication{}, notFound(err, medications.ErrNotFound)
	}
	var doc medicationDoc
	decode(raw, &doc)
	return normalizeMedication(id, doc), nil
}

func (r *MedicationRepo) ListByUser(ctx context.Context, userID string) ([]medications.Medication, error) {
	docs, err := r.store.List(ctx, CollectionMedications, byUser(userID, "createdAt", false))
	if err != nil {
		return nil, err
	}
	out := make([]medications.Medication, 0, len(docs))
	for _, d := range docs {
		var doc medicationDoc
		decode(d.Data, &doc)
		out = append(out, normalizeMedication(d.ID, doc))
	}
	return out, nil
}

func (r *MedicationRepo) UpdateStatus(ctx context.Context, id string, status medications.Status, c medications.Counters) error {
	err := r.store.Update(ctx, CollectionMedications, id, map[string]any{
		"status":   string(status),
		"counters": countersMap(c),
	})
	return notFound(err, medications.ErrNotFound)
}

func (r *MedicationRepo) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Remove(ctx, CollectionMedications, id), medications.ErrNotFound)
}

// normalizeMedication completa estado y frecuencia. Los contadores se derivan
// siempre del estado: solo reflejan el último resultado.
func normalizeMedication(id string, d medicationDoc) medications.Medication {
	status := medications.Status(d.Status)
	if !status.Valid() {
		status = medications.StatusPending
	}
	freq := medications.Frequency(d.Frequency)
	if !freq.Valid() {
		freq = medications.FrequencyDaily
	}

	dose := d.Dose.Value
	if dose < 0 {
		dose = 0
	}

	return medications.Medication{
		ID:        id,
		UserID:    string(d.UserID),
		Name:      string(d.Name),
		Dose:      dose,
		Time:      string(d.Time),
		Frequency: freq,
		Status:    status,
		Counters:  medications.CountersFor(status),
		CreatedAt: d.CreatedAt.Value,
	}
}

func countersMap(c medications.Counters) map[string]int {
	return map[string]int{"taken": c.Taken, "missed": c.Missed}
}
