package api

// ValidAccountNumber reports whether s is a well-formed 10-digit account
// number. Shape only; existence is the core's concern.
func ValidAccountNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
