package documents

import (
	"context"
	"encoding/json"

	"meditrack/internal/domain/devices"
	"meditrack/internal/ports/store"
)

type deviceDoc struct {
	UserID    flexString `json:"userId"`
	Token     flexString `json:"token"`
	CreatedAt flexTime   `json:"createdAt"`
}

type deviceRecord struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type DeviceRepo struct {
	store store.Store
}

func NewDeviceRepo(s store.Store) *DeviceRepo {
	return &DeviceRepo{store: s}
}

func (r *DeviceRepo) Create(ctx context.Context, d devices.Device) (string, error) {
	return r.store.Create(ctx, CollectionDevices, deviceRecord{
		UserID:    d.UserID,
		Token:     d.Token,
		CreatedAt: formatTime(d.CreatedAt),
	})
}

func (r *DeviceRepo) GetByID(ctx context.Context, id string) (devices.Device, error) {
	var raw json.RawMessage
	if err := r.store.Get(ctx, CollectionDevices, id, &raw); err != nil {
		return devices.Device{}, notFound(err, devices.ErrNotFound)
	}
	var doc deviceDoc
	decode(raw, &doc)
	return toDevice(id, doc), nil
}

func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]devices.Device, error) {
	docs, err := r.store.List(ctx, CollectionDevices, byUser(userID, "createdAt", false))
	if err != nil {
		return nil, err
	}
	out := make([]devices.Device, 0, len(docs))
	for _, d := range docs {
		var doc deviceDoc
		decode(d.Data, &doc)
		if doc.Token == "" {
			continue
		}
		out = append(out, toDevice(d.ID, doc))
	}
	return out, nil
}

func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	return notFound(r.store.Remove(ctx, CollectionDevices, id), devices.ErrNotFound)
}

func toDevice(id string, d deviceDoc) devices.Device {
	return devices.Device{
		ID:        id,
		UserID:    string(d.UserID),
		Token:     string(d.Token),
		CreatedAt: d.CreatedAt.Value,
	}
}
