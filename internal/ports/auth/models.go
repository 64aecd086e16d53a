package auth

// Claims es la identidad del actor. UserID es lo único que exige el motor
// para decidir ownership.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
