package enums

import "fmt"

// AccountStatus gates whether a user may sign in.
type AccountStatus string

const (
	AccountStatusUnapproved AccountStatus = "UNAPPROVED"
	AccountStatusApproved   AccountStatus = "APPROVED"
	AccountStatusSuspended  AccountStatus = "SUSPENDED"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusUnapproved,
	AccountStatusApproved,
	AccountStatusSuspended,
}

// String implements fmt.Stringer.
func (a AccountStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountStatus.
func (a AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountStatus converts raw input into a AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	for _, candidate := range validAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
