package medications

import "time"

// Status de adherencia del día.
// @Enum pending, taken, missed
type Status string

const (
	StatusPending Status = "pending"
	StatusTaken   Status = "taken"
	StatusMissed  Status = "missed"
)

// Frequency del esquema de dosis.
// @Enum daily, weekly, custom
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Counters guarda solo el último resultado (no es un acumulado).
// A lo sumo uno vale 1; ambos en 0 solo en pending.
type Counters struct {
	Taken  int
	Missed int
}

type Medication struct {
	ID     string
	UserID string

	Name      string
	Dose      int
	Time      string // HH:MM
	Frequency Frequency
	Status    Status
	Counters  Counters

	CreatedAt time.Time
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusTaken, StatusMissed:
		return true
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// CountersFor deriva los contadores de un estado.
func CountersFor(s Status) Counters {
	switch s {
	case StatusTaken:
		return Counters{Taken: 1}
	case StatusMissed:
		return Counters{Missed: 1}
	default:
		return Counters{}
	}
}
