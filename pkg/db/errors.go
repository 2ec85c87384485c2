package db

import "strings"

// IsUniqueViolation reports whether err is a Postgres unique violation.
// Gorm error translation is off, so repositories match on the driver
// message. A non-empty constraintName narrows the match to one constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
