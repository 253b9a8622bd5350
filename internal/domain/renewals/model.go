package renewals

import "time"

// Status del pedido de renovación.
// @Enum ok, requested, approved, denied, expiring, overdue
type Status string

const (
	StatusOK        Status = "ok"
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusExpiring  Status = "expiring"
	StatusOverdue   Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusRequested, StatusApproved, StatusDenied, StatusExpiring, StatusOverdue:
		return true
	}
	return false
}

type Item struct {
	ID     string
	UserID string

	Name      string
	Remaining *int       // pastillas restantes; nil solo en registros viejos
	RefillBy  *time.Time // fecha (sin hora); nil = no informada
	Pharmacy  string
	Status    Status

	CreatedAt   time.Time
	UpdatedAt   time.Time
	RequestedAt *time.Time
}

// StatusPatch es lo único que cambia en un item después del alta.
type StatusPatch struct {
	Status      Status
	UpdatedAt   time.Time
	RequestedAt *time.Time // nil = no tocar
}

// View es el item decorado para mostrar; no se persiste.
type View struct {
	Item
	DaysLeft *int
	Badge    Badge
}
