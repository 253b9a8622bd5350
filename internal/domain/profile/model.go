package profile

import "time"

// Profile es un singleton por despliegue: no está asociado a un usuario.
// Se sobrescribe completo en cada guardado.
type Profile struct {
	Name       string
	Age        int
	Allergies  string
	Conditions string
	Doctor     string // contacto del médico

	UpdatedAt time.Time
}
