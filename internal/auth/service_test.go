package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/servicebay-backend/pkg/auth"
	"github.com/angelmondragon/servicebay-backend/pkg/auth/session"
	"github.com/angelmondragon/servicebay-backend/pkg/config"
	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicebay-backend/pkg/errors"
	"github.com/angelmondragon/servicebay-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "servicebay",
	ExpirationMinutes: 30,
}

type stubUserRepo struct {
	users     map[string]*models.User
	lastLogin map[int64]time.Time
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubSessions struct {
	tokens  map[string]string
	owners  map[string]int64
	revoked []string
	rotErr  error
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}, owners: map[string]int64{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string, userID int64) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	s.owners[accessID] = userID
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID string, userID int64, provided string) (string, string, error) {
	if s.rotErr != nil {
		return "", "", s.rotErr
	}
	if s.tokens[oldAccessID] != provided || s.owners[oldAccessID] != userID {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	next := "rotated-" + oldAccessID
	token, _ := s.Generate(ctx, next, userID)
	return next, token, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.tokens, accessID)
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, users ...*models.User) (Service, *stubUserRepo, *stubSessions) {
	t.Helper()
	repo := &stubUserRepo{users: map[string]*models.User{}, lastLogin: map[int64]time.Time{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	sessions := newStubSessions()
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWT})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func advisorUser(t *testing.T, status enums.AccountStatus) *models.User {
	return &models.User{
		ID:            5,
		FirstName:     "Ana",
		LastName:      "Lima",
		Email:         "ana@garage.io",
		PasswordHash:  mustHashPassword(t, "advisor-pass"),
		UserType:      enums.UserTypeServiceAdvisor,
		AccountStatus: status,
	}
}

func TestLoginApprovedAdvisor(t *testing.T) {
	svc, repo, sessions := buildTestService(t, advisorUser(t, enums.AccountStatusApproved))

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " ANA@garage.io", Password: "advisor-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != 5 || claims.UserType != enums.UserTypeServiceAdvisor {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if sessions.tokens[claims.ID] != resp.RefreshToken {
		t.Fatalf("refresh token not stored under jti")
	}
	if _, ok := repo.lastLogin[5]; !ok {
		t.Fatalf("expected last login to be recorded")
	}
	if resp.User.FullName != "Ana Lima" {
		t.Fatalf("unexpected full name %q", resp.User.FullName)
	}
}

func TestLoginAccountGates(t *testing.T) {
	customer := advisorUser(t, enums.AccountStatusApproved)
	customer.UserType = enums.UserTypeCustomer

	cases := []struct {
		name string
		user *models.User
		pass string
		code pkgerrors.Code
		msg  string
	}{
		{name: "unapproved", user: advisorUser(t, enums.AccountStatusUnapproved), pass: "advisor-pass", code: pkgerrors.CodeUnauthorized, msg: "account is unapproved"},
		{name: "suspended", user: advisorUser(t, enums.AccountStatusSuspended), pass: "advisor-pass", code: pkgerrors.CodeForbidden, msg: "account is suspended"},
		{name: "customer", user: customer, pass: "advisor-pass", code: pkgerrors.CodeUnauthorized, msg: invalidCredentialsMessage},
		{name: "wrong password", user: advisorUser(t, enums.AccountStatusApproved), pass: "nope", code: pkgerrors.CodeUnauthorized, msg: invalidCredentialsMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := buildTestService(t, tc.user)
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.user.Email, Password: tc.pass})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code || typed.Message() != tc.msg {
				t.Fatalf("expected %s %q, got %v", tc.code, tc.msg, err)
			}
		})
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := buildTestService(t)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@garage.io", Password: "whatever"})
	if !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := advisorUser(t, enums.AccountStatusApproved)
	svc, _, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "advisor-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	pair, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if sessions.tokens[claims.ID] != pair.RefreshToken {
		t.Fatalf("rotated refresh token not stored")
	}

	if _, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected reused refresh token to be rejected, got %v", err)
	}
}

func TestRefreshRejectsSuspendedAccount(t *testing.T) {
	user := advisorUser(t, enums.AccountStatusApproved)
	svc, _, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "advisor-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user.AccountStatus = enums.AccountStatusSuspended

	if _, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.Is(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected session revoked for suspended account")
	}
}

func TestRefreshStoreFailure(t *testing.T) {
	user := advisorUser(t, enums.AccountStatusApproved)
	svc, _, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "advisor-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sessions.rotErr = errors.New("redis down")
	if _, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	user := advisorUser(t, enums.AccountStatusApproved)
	svc, _, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "advisor-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected session removed, have %v", sessions.tokens)
	}
	if err := svc.Logout(ctx, "garbage"); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
}
