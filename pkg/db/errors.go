package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. Postgres names the violated index in its message while sqlite
// only reports the column list, so hints may name either; the error matches
// when any hint appears in the message. With no hints any unique violation
// matches.
func IsUniqueViolation(err error, hints ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if len(hints) == 0 {
		return true
	}
	for _, hint := range hints {
		if hint != "" && strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
