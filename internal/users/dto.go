package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            int64               `json:"id"`
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	FullName      string              `json:"fullName"`
	Email         string              `json:"email"`
	MobileNumber  *string             `json:"mobileNumber,omitempty"`
	UserType      enums.UserType      `json:"userType"`
	AccountStatus enums.AccountStatus `json:"accountStatus"`
	LastLoginAt   *time.Time          `json:"lastLoginAt,omitempty"`
	CreatedOn     time.Time           `json:"createdOn"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	MobileNumber  *string
	UserType      enums.UserType
	AccountStatus enums.AccountStatus
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Email:         u.Email,
		MobileNumber:  u.MobileNumber,
		UserType:      u.UserType,
		AccountStatus: u.AccountStatus,
		LastLoginAt:   u.LastLoginAt,
		CreatedOn:     u.CreatedOn,
	}
}

func FromModels(list []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	status := c.AccountStatus
	if status == "" {
		status = enums.AccountStatusUnapproved
	}
	return &models.User{
		FirstName:     strings.TrimSpace(c.FirstName),
		LastName:      strings.TrimSpace(c.LastName),
		Email:         NormalizeEmail(c.Email),
		PasswordHash:  c.PasswordHash,
		MobileNumber:  c.MobileNumber,
		UserType:      c.UserType,
		AccountStatus: status,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
