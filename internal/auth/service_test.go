package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/peerline/internal/model"
	"github.com/hitoshi/peerline/internal/repository"
)

// --- モック定義 ---

type mockTokenRepo struct {
	createFn      func(ctx context.Context, token *model.Token) error
	findByValueFn func(ctx context.Context, value string) (*model.Token, error)
	revokeFn      func(ctx context.Context, value string) error
}

func (m *mockTokenRepo) Create(ctx context.Context, token *model.Token) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) FindByValue(ctx context.Context, value string) (*model.Token, error) {
	if m.findByValueFn != nil {
		return m.findByValueFn(ctx, value)
	}
	return nil, nil
}

func (m *mockTokenRepo) Revoke(ctx context.Context, value string) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, value)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (m *mockUserRepo) UpdateSchedule(_ context.Context, _ *model.User) error { return nil }

func (m *mockUserRepo) ListAll(_ context.Context) ([]*model.User, error) { return nil, nil }

func (m *mockUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

// --- compile-time interface checks ---
var _ repository.TokenRepository = (*mockTokenRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

func isUnauthorized(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized
}

// --- テスト ---

func TestIssue_CreatesIssuedToken(t *testing.T) {
	ctx := context.Background()

	var created *model.Token
	tokenRepo := &mockTokenRepo{
		createFn: func(ctx context.Context, token *model.Token) error {
			created = token
			return nil
		},
	}

	svc := NewService(tokenRepo, &mockUserRepo{})

	token, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if token.Value == "" {
		t.Error("expected non-empty token value")
	}
	if token.UserID != "user-1" {
		t.Errorf("token userID = %q, want %q", token.UserID, "user-1")
	}
	if token.Revoked {
		t.Error("new token must be issued, not revoked")
	}
	if created == nil {
		t.Fatal("expected token to be persisted")
	}
	if created.Value != token.Value {
		t.Errorf("persisted value = %q, want %q", created.Value, token.Value)
	}
}

func TestIssue_EmptyUserID_ReturnsError(t *testing.T) {
	svc := NewService(&mockTokenRepo{}, &mockUserRepo{})

	if _, err := svc.Issue(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty user ID")
	}
}

func TestIssue_GeneratesUniqueValues(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockTokenRepo{}, &mockUserRepo{})

	first, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := svc.Issue(ctx, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if first.Value == second.Value {
		t.Error("expected distinct token values per issue")
	}
}

func TestValidate_IssuedToken_ReturnsUser(t *testing.T) {
	ctx := context.Background()

	tokenRepo := &mockTokenRepo{
		findByValueFn: func(ctx context.Context, value string) (*model.Token, error) {
			return &model.Token{
				ID:        "token-1",
				Value:     value,
				UserID:    "user-1",
				Revoked:   false,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, FirstName: "Helper"}, nil
		},
	}

	svc := NewService(tokenRepo, userRepo)

	user, err := svc.Validate(ctx, "valid-token")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user ID = %q, want %q", user.ID, "user-1")
	}
}

func TestValidate_EmptyToken_Unauthorized(t *testing.T) {
	svc := NewService(&mockTokenRepo{}, &mockUserRepo{})

	_, err := svc.Validate(context.Background(), "")
	if !isUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestValidate_UnknownToken_Unauthorized(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		findByValueFn: func(ctx context.Context, value string) (*model.Token, error) {
			return nil, nil
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	_, err := svc.Validate(context.Background(), "unknown")
	if !isUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestValidate_RevokedToken_Unauthorized(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		findByValueFn: func(ctx context.Context, value string) (*model.Token, error) {
			return &model.Token{
				ID:      "token-1",
				Value:   value,
				UserID:  "user-1",
				Revoked: true,
			}, nil
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	_, err := svc.Validate(context.Background(), "revoked-token")
	if !isUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestValidate_MissingOwner_Unauthorized(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		findByValueFn: func(ctx context.Context, value string) (*model.Token, error) {
			return &model.Token{ID: "token-1", Value: value, UserID: "gone"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(tokenRepo, userRepo)

	_, err := svc.Validate(context.Background(), "orphan-token")
	if !isUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestRevoke_DelegatesToRepo(t *testing.T) {
	var revoked string
	tokenRepo := &mockTokenRepo{
		revokeFn: func(ctx context.Context, value string) error {
			revoked = value
			return nil
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	if err := svc.Revoke(context.Background(), "token-to-revoke"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if revoked != "token-to-revoke" {
		t.Errorf("revoked value = %q, want %q", revoked, "token-to-revoke")
	}
}

func TestRevoke_EmptyToken_NoOp(t *testing.T) {
	called := false
	tokenRepo := &mockTokenRepo{
		revokeFn: func(ctx context.Context, value string) error {
			called = true
			return nil
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	if err := svc.Revoke(context.Background(), ""); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if called {
		t.Error("expected no repository call for empty token")
	}
}

// 失効は冪等: 既に失効済みのトークンを再度失効させてもエラーにならない
func TestRevoke_AlreadyRevoked_NoError(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		revokeFn: func(ctx context.Context, value string) error {
			// リポジトリ実装は未知/失効済みでも単にUPDATE 0件で成功する
			return nil
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	if err := svc.Revoke(context.Background(), "already-revoked"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := svc.Revoke(context.Background(), "already-revoked"); err != nil {
		t.Fatalf("second Revoke() error = %v", err)
	}
}

func TestRevoke_RepoError_Propagates(t *testing.T) {
	tokenRepo := &mockTokenRepo{
		revokeFn: func(ctx context.Context, value string) error {
			return errors.New("db error")
		},
	}
	svc := NewService(tokenRepo, &mockUserRepo{})

	if err := svc.Revoke(context.Background(), "token"); err == nil {
		t.Fatal("expected error from Revoke")
	}
}

// 失効後のValidateが二度とissuedを観測しないこと
func TestValidate_AfterRevoke_Unauthorized(t *testing.T) {
	ctx := context.Background()

	// インメモリで状態遷移を再現する
	stored := &model.Token{ID: "token-1", Value: "t", UserID: "user-1"}
	tokenRepo := &mockTokenRepo{
		findByValueFn: func(ctx context.Context, value string) (*model.Token, error) {
			if value == stored.Value {
				copied := *stored
				return &copied, nil
			}
			return nil, nil
		},
		revokeFn: func(ctx context.Context, value string) error {
			if value == stored.Value {
				stored.Revoked = true
			}
			return nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	svc := NewService(tokenRepo, userRepo)

	if _, err := svc.Validate(ctx, "t"); err != nil {
		t.Fatalf("Validate() before revoke error = %v", err)
	}

	if err := svc.Revoke(ctx, "t"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Validate(ctx, "t"); !isUnauthorized(err) {
			t.Fatalf("Validate() after revoke = %v, want Unauthorized", err)
		}
	}
}
