package servicerecords

import (
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
)

// Actor is the verified caller identity resolved from the access token.
type Actor struct {
	UserID int64
	Role   enums.UserType
}

// transitionRoles lists the roles allowed to move a record to each status.
var transitionRoles = map[enums.ServiceStatus][]enums.UserType{
	enums.ServiceStatusUnderService: {enums.UserTypeAdmin, enums.UserTypeServiceAdvisor},
	enums.ServiceStatusCompleted:    {enums.UserTypeAdmin, enums.UserTypeServiceAdvisor},
}

func (a Actor) validate() error {
	if a.UserID <= 0 || !a.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	return nil
}

func (a Actor) canTransitionTo(status enums.ServiceStatus) bool {
	for _, role := range transitionRoles[status] {
		if role == a.Role {
			return true
		}
	}
	return false
}
