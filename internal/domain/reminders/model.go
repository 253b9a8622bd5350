package reminders

import "time"

const (
	NotificationTitle = "Medication Reminder"
)

// Reminder se crea y se borra; nunca se modifica.
type Reminder struct {
	ID         string
	UserID     string
	Medication string
	Time       time.Time // instante absoluto del aviso
	CreatedAt  time.Time
}

// ListUpdate es una foto completa de los recordatorios de un usuario,
// ordenados por Time ascendente.
type ListUpdate struct {
	Reminders []Reminder
	Err       error
}

// State del trigger local de un recordatorio.
type State int

const (
	StateUnknown State = iota
	StateScheduled
	StateFired
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateFired:
		return "fired"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func notificationBody(medication string) string {
	return "Time to take " + medication
}
