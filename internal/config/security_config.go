package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD /route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /health": SecurityPublic,

	// User
	"POST /api/user/login": SecurityPublic,
	"GET /api/user/data":   SecurityAccess,

	// Bookings
	"POST /api/bookings/check-availability": SecurityPublic,
	"POST /api/bookings/create":             SecurityAccess,
	"GET /api/bookings/user":                SecurityAccess,
	"GET /api/bookings/owner":               SecurityAccess,
	"POST /api/bookings/change-status":      SecurityAccess,

	// Payments
	"POST /api/payments/verify": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
