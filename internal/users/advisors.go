package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/security"
)

const entityAdvisor = "service advisor"

type advisorsRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByIDAndType(ctx context.Context, id int64, userType enums.UserType) (*models.User, error)
	ListByType(ctx context.Context, userType enums.UserType) ([]models.User, error)
	UpdateFields(ctx context.Context, id int64, userType enums.UserType, fields map[string]any) (int64, error)
	DeleteByType(ctx context.Context, id int64, userType enums.UserType) (int64, error)
}

// CreateAdvisorInput is the admin payload for onboarding a service advisor.
type CreateAdvisorInput struct {
	FirstName    string  `json:"firstName" validate:"required,max=100"`
	LastName     string  `json:"lastName" validate:"max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty" validate:"omitempty,max=32"`
}

// UpdateAdvisorInput applies only the provided fields.
type UpdateAdvisorInput struct {
	FirstName     *string              `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName      *string              `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email         *string              `json:"email,omitempty" validate:"omitempty,email"`
	MobileNumber  *string              `json:"mobileNumber,omitempty" validate:"omitempty,max=32"`
	AccountStatus *enums.AccountStatus `json:"accountStatus,omitempty"`
	Password      *string              `json:"password,omitempty"`
}

// CreatedAdvisor returns the new advisor and, when one was generated, the temporary password.
type CreatedAdvisor struct {
	User         *models.User
	TempPassword string
}

// AdvisorService is the admin-facing management surface for service advisors.
type AdvisorService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, input CreateAdvisorInput) (*CreatedAdvisor, error)
	Update(ctx context.Context, id int64, input UpdateAdvisorInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type advisorService struct {
	repo        advisorsRepository
	passwordCfg config.PasswordConfig
}

// NewAdvisorService builds the advisor management service.
func NewAdvisorService(repo advisorsRepository, passwordCfg config.PasswordConfig) (AdvisorService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &advisorService{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *advisorService) List(ctx context.Context) ([]models.User, error) {
	list, err := s.repo.ListByType(ctx, enums.UserTypeServiceAdvisor)
	if err != nil {
		return nil, pkgerrors.Storage(err, "list service advisors")
	}
	return list, nil
}

// Create always stores the user as an unapproved service advisor.
func (s *advisorService) Create(ctx context.Context, input CreateAdvisorInput) (*CreatedAdvisor, error) {
	firstName := strings.TrimSpace(input.FirstName)
	email := NormalizeEmail(input.Email)
	if firstName == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name and email are required")
	}

	password := input.Password
	temp := ""
	if strings.TrimSpace(password) == "" {
		generated, err := security.GenerateTempPassword(security.TempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		password, temp = generated, generated
	} else if err := security.CheckPolicy(password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		FirstName:     firstName,
		LastName:      input.LastName,
		Email:         email,
		PasswordHash:  hash,
		MobileNumber:  trimmedPtr(input.MobileNumber),
		UserType:      enums.UserTypeServiceAdvisor,
		AccountStatus: enums.AccountStatusUnapproved,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Storage(err, "create service advisor")
	}
	return &CreatedAdvisor{User: user, TempPassword: temp}, nil
}

func (s *advisorService) Update(ctx context.Context, id int64, input UpdateAdvisorInput) (*models.User, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "advisor id must be positive")
	}
	fields, err := s.updateFields(input)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		rows, err := s.repo.UpdateFields(ctx, id, enums.UserTypeServiceAdvisor, fields)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
			}
			return nil, pkgerrors.Storage(err, "update service advisor")
		}
		if rows == 0 {
			return nil, pkgerrors.NotFound(entityAdvisor, id)
		}
	}

	user, err := s.repo.FindByIDAndType(ctx, id, enums.UserTypeServiceAdvisor)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound(entityAdvisor, id)
		}
		return nil, pkgerrors.Storage(err, "load service advisor")
	}
	return user, nil
}

func (s *advisorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "advisor id must be positive")
	}
	rows, err := s.repo.DeleteByType(ctx, id, enums.UserTypeServiceAdvisor)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "service advisor has service records")
		}
		return pkgerrors.Storage(err, "delete service advisor")
	}
	if rows == 0 {
		return pkgerrors.NotFound(entityAdvisor, id)
	}
	return nil
}

func (s *advisorService) updateFields(input UpdateAdvisorInput) (map[string]any, error) {
	fields := map[string]any{}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		fields["first_name"] = name
	}
	if input.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		fields["email"] = email
	}
	if input.MobileNumber != nil {
		fields["mobile_number"] = trimmedPtr(input.MobileNumber)
	}
	if input.AccountStatus != nil {
		if !input.AccountStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status").
				WithDetails(map[string]any{"accountStatus": *input.AccountStatus})
		}
		fields["account_status"] = *input.AccountStatus
	}
	if input.Password != nil {
		if err := security.CheckPolicy(*input.Password); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		fields["password_hash"] = hash
	}
	return fields, nil
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
