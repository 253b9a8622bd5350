package documents

import (
	"context"
	"encoding/json"
	"time"

	"meditrack/internal/domain/renewals"
	"meditrack/internal/ports/store"
)

type renewalDoc struct {
	UserID      flexString `json:"userId"`
	Name        flexString `json:"name"`
	Remaining   flexInt    `json:"remaining"`
	RefillBy    flexTime   `json:"refillBy"`
	Pharmacy    flexString `json:"pharmacy"`
	Status      flexString `json:"status"`
	CreatedAt   flexTime   `json:"createdAt"`
	UpdatedAt   flexTime   `json:"updatedAt"`
	RequestedAt flexTime   `json:"requestedAt"`
}

type renewalRecord struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Remaining   *int   `json:"remaining,omitempty"`
	RefillBy    string `json:"refillBy,omitempty"`
	Pharmacy    string `json:"pharmacy,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	RequestedAt string `json:"requestedAt,omitempty"`
}

type RenewalRepo struct {
	store store.Store
}

func NewRenewalRepo(s store.Store) *RenewalRepo {
	return &RenewalRepo{store: s}
}

func (r *RenewalRepo) Create(ctx context.Context, it renewals.Item) (string, error) {
	rec := renewalRecord{
		UserID:    it.UserID,
		Name:      it.Name,
		Remaining: it.Remaining,
		Pharmacy:  it.Pharmacy,
		Status:    string(it.Status),
		CreatedAt: formatTime(it.CreatedAt),
		UpdatedAt: formatTime(it.UpdatedAt),
	}
	if it.RefillBy != nil {
		rec.RefillBy = it.RefillBy.Format(dateLayout)
	}
	if it.RequestedAt != nil {
		rec.RequestedAt = formatTime(*it.RequestedAt)
	}
	return r.store.Create(ctx, CollectionRenewals, rec)
}

func (r *RenewalRepo) GetByID(ctx context.Context, id string) (renewals.Item, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionRenewals, id, &raw); err != nil {
		return renewals.Item{}, notFound(err, renewals.ErrNotFound)
	}
	var doc renewalDoc
	decode(raw, &doc)
	return normalizeRenewal(id, doc), nil
}

func (r *RenewalRepo) ListByUser(ctx context.Context, userID string) ([]renewals.Item, error) {
	docs, err := r.store.List(ctx, CollectionRenewals, byUser(userID, "createdAt", true))
	if err != nil {
		return nil, err
	}
	out := make([]renewals.Item, 0, len(docs))
	for _, d := range docs {
		var doc renewalDoc
		decode(d.Data, &doc)
		out = append(out, normalizeRenewal(d.ID, doc))
	}
	return out, nil
}

func (r *RenewalRepo) UpdateStatus(ctx context.Context, id string, p renewals.StatusPatch) error {
	fields := map[string]any{
		"status":    string(p.Status),
		"updatedAt": formatTime(p.UpdatedAt),
	}
	if p.RequestedAt != nil {
		fields["requestedAt"] = formatTime(*p.RequestedAt)
	}
	return notFound(r.store.Update(ctx, CollectionRenewals, id, fields), renewals.ErrNotFound)
}

func (r *RenewalRepo) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Remove(ctx, CollectionRenewals, id), renewals.ErrNotFound)
}

func normalizeRenewal(id string, d renewalDoc) renewals.Item {
	status := renewals.Status(d.Status)
	if !status.Valid() {
		status = renewals.StatusOK
	}

	it := renewals.Item{
		ID:        id,
		UserID:    string(d.UserID),
		Name:      string(d.Name),
		Pharmacy:  string(d.Pharmacy),
		Status:    status,
		CreatedAt: d.CreatedAt.Value,
		UpdatedAt: d.UpdatedAt.Value,
	}
	if d.Remaining.Set {
		n := d.Remaining.Value
		if n < 0 {
			n = 0
		}
		it.Remaining = &n
	}
	if v := d.RefillBy.Value; !v.IsZero() {
		day := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		it.RefillBy = &day
	}
	if v := d.RequestedAt.Value; !v.IsZero() {
		it.RequestedAt = &v
	}
	return it
}
