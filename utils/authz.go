// utils/authz.go
package utils

// Authorize is the single authorization policy decision point. Every
// pipeline entry point consults it with the caller's user type and the
// user types the operation requires. An empty allowed list denies.
func Authorize(userType string, allowed ...string) bool {
	if userType == "" {
		return false
	}
	for _, a := range allowed {
		if userType == a {
			return true
		}
	}
	return false
}
