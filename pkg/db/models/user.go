package models

import (
	"strings"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/enums"
)

// User covers admins, service advisors and vehicle-owning customers.
type User struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName     string              `gorm:"column:first_name;not null"`
	LastName      string              `gorm:"column:last_name;not null"`
	Email         string              `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string              `gorm:"column:password_hash;not null"`
	MobileNumber  *string             `gorm:"column:mobile_number"`
	UserType      enums.UserType      `gorm:"column:user_type;type:text;not null"`
	AccountStatus enums.AccountStatus `gorm:"column:account_status;type:text;not null;default:'UNAPPROVED'"`
	LastLoginAt   *time.Time          `gorm:"column:last_login_at"`
	CreatedOn     time.Time           `gorm:"column:created_on;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
