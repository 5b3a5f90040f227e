package enums

import (
	"fmt"
	"strings"
)

// AccountType distinguishes self-service personal accounts from business ones.
type AccountType string

const (
	AccountTypePersonal AccountType = "personal"
	AccountTypeBusiness AccountType = "business"
)

var validAccountTypes = []AccountType{
	AccountTypePersonal,
	AccountTypeBusiness,
}

// String implements fmt.Stringer.
func (a AccountType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountType.
func (a AccountType) IsValid() bool {
	for _, candidate := range validAccountTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountType converts raw input into an AccountType. Empty input maps
// to personal, matching records created before the field existed.
func ParseAccountType(value string) (AccountType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return AccountTypePersonal, nil
	}
	for _, candidate := range validAccountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account type %q", value)
}
