package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
	"github.com/ibpipeline/pipeline-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // keyed by username
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) {
	if u.ID == "" {
		u.ID = u.Username
	}
	r.users[u.Username] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.add(cloneUser(user))
	return cloneUser(r.users[user.Username]), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// stubHasher matches any password equal to "hash(" + plaintext + ")".
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hash(" + plaintext + ")", nil }
func (stubHasher) Matches(plaintext, hash string) bool   { return hash == "hash("+plaintext+")" }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newAuthSvc(t *testing.T, repo *stubUserRepo) (*AuthService, *TokenCodec) {
	t.Helper()
	codec := newTestCodec(t, "auth-test-secret")
	svc := NewAuthService(repo, stubHasher{}, codec, 15*time.Minute, 7*24*time.Hour, zerolog.Nop())
	return svc, codec
}

func seedUser(repo *stubUserRepo, username, password, role string, active bool) {
	repo.add(&domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash(" + password + ")",
		Role:         role,
		Active:       active,
		CreatedAt:    time.Now().UTC(),
	})
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "carol", "s3cret", domain.RoleAdmin, true)
	svc, codec := newAuthSvc(t, repo)

	result, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %s", domain.RoleAdmin, result.Role)
	}

	access, err := codec.Verify(result.AccessToken, domain.TokenAccess)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if access.Subject != "carol" || access.Role != domain.RoleAdmin {
		t.Fatalf("unexpected access claims: %+v", access)
	}

	refresh, err := codec.Verify(result.RefreshToken, domain.TokenRefresh)
	if err != nil {
		t.Fatalf("refresh token does not verify: %v", err)
	}
	if refresh.Subject != "carol" {
		t.Fatalf("unexpected refresh subject: %q", refresh.Subject)
	}
}

func TestAuthService_Login_GenericRejection(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "dave", "goodpass", domain.RoleUser, true)
	seedUser(repo, "erin", "whatever", domain.RoleUser, false)
	svc, _ := newAuthSvc(t, repo)

	// Unknown user, wrong password, and inactive account must all be
	// indistinguishable.
	cases := []struct {
		name               string
		username, password string
	}{
		{"unknown user", "ghost", "pass"},
		{"wrong password", "dave", "badpass"},
		{"inactive account", "erin", "whatever"},
		{"empty credentials", "", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, domain.ErrAuthRejected) {
			t.Fatalf("%s: expected ErrAuthRejected, got %v", tc.name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "frank", "pw", domain.RoleUser, true)
	svc, codec := newAuthSvc(t, repo)

	login, err := svc.Login(context.Background(), "frank", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	accessToken, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	claims, err := codec.Verify(accessToken, domain.TokenAccess)
	if err != nil {
		t.Fatalf("refreshed access token does not verify: %v", err)
	}
	if claims.Subject != "frank" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "gina", "pw", domain.RoleUser, true)
	svc, _ := newAuthSvc(t, repo)

	login, _ := svc.Login(context.Background(), "gina", "pw")
	if _, err := svc.Refresh(context.Background(), login.AccessToken); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("access token accepted for refresh: %v", err)
	}
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "hank", "pw", domain.RoleUser, true)
	svc, _ := newAuthSvc(t, repo)

	login, _ := svc.Login(context.Background(), "hank", "pw")

	// Deactivate after issuance: the still-valid token must be rejected.
	user := repo.users["hank"]
	user.Active = false

	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected for deactivated user, got %v", err)
	}
}

func TestAuthService_Refresh_PicksUpRoleChange(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "iris", "pw", domain.RoleUser, true)
	svc, codec := newAuthSvc(t, repo)

	login, _ := svc.Login(context.Background(), "iris", "pw")

	repo.users["iris"].Role = domain.RoleAdmin

	accessToken, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	claims, _ := codec.Verify(accessToken, domain.TokenAccess)
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected refreshed token to carry new role, got %q", claims.Role)
	}
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubUserRepo())
	if _, err := svc.Refresh(context.Background(), "bogus"); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
}

var _ ports.UserRepository = (*stubUserRepo)(nil)
