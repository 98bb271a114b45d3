package enums

import "fmt"

// ServiceStatus tracks where a service record sits in its lifecycle.
type ServiceStatus string

const (
	ServiceStatusDue          ServiceStatus = "DUE"
	ServiceStatusUnderService ServiceStatus = "UNDER_SERVICE"
	ServiceStatusCompleted    ServiceStatus = "COMPLETED"
)

var validServiceStatuses = []ServiceStatus{
	ServiceStatusDue,
	ServiceStatusUnderService,
	ServiceStatusCompleted,
}

// String implements fmt.Stringer.
func (s ServiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceStatus.
func (s ServiceStatus) IsValid() bool {
	for _, candidate := range validServiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceStatus converts raw input into a ServiceStatus.
func ParseServiceStatus(value string) (ServiceStatus, error) {
	for _, candidate := range validServiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service status %q", value)
}

var serviceStatusRank = map[ServiceStatus]int{
	ServiceStatusDue:          0,
	ServiceStatusUnderService: 1,
	ServiceStatusCompleted:    2,
}

// IsOpen reports whether work can still be recorded against the status.
func (s ServiceStatus) IsOpen() bool {
	return s == ServiceStatusDue || s == ServiceStatusUnderService
}

// CanAdvanceTo reports whether moving to next keeps the lifecycle moving forward.
// Staying in place counts as a valid move so repeated transitions are no-ops.
func (s ServiceStatus) CanAdvanceTo(next ServiceStatus) bool {
	from, ok := serviceStatusRank[s]
	if !ok {
		return false
	}
	to, ok := serviceStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}
