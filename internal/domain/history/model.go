package history

// Record es la foto inmutable de una medicación al cambiar de estado.
// Se agrega una por transición y nunca se modifica ni se borra.
type Record struct {
	ID           string
	MedicationID string
	UserID       string

	Name      string
	Dose      int
	Time      string // HH:MM
	Frequency string
	Status    string
	Date      string // YYYY-MM-DD
}

// Filter aplica sobre el listado del usuario. Vacío = sin filtro.
type Filter struct {
	Status string
	Name   string // substring, case-insensitive
}

// Group agrupa registros de un mismo día.
type Group struct {
	Date    string
	Records []Record
}
