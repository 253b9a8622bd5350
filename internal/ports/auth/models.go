package auth

// Claims identifica al paciente autenticado. UserID es la clave por la que
// se filtran todos sus documentos.
type Claims struct {
	UserID string
	Email  string
}

// Session es lo que devuelve el proveedor de identidad al registrarse o loguearse.
type Session struct {
	UserID       string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    int // segundos
}
