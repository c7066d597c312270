package auth

// Keputusan otorisasi eksplisit: role caller + pemilik resource masuk sebagai
// parameter, bukan state global.

// CanAccessResource: admin bebas, user cuma resource miliknya.
func CanAccessResource(role, callerID, ownerID string) bool {
	if role == RoleAdmin {
		return true
	}
	return callerID == ownerID
}

// CanTransitionOrder: transisi status di luar cancel-milik-sendiri cuma admin.
func CanTransitionOrder(role string) bool {
	return role == RoleAdmin
}
