package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
)

// fakeAccountStore is an in-memory AccountStore keyed the way the SQL
// repository behaves: identifier matches email or username.
type fakeAccountStore struct {
	accounts map[uuid.UUID]*model.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[uuid.UUID]*model.Account)}
}

func (f *fakeAccountStore) Create(_ context.Context, a *model.Account) error {
	for _, existing := range f.accounts {
		if existing.Email == a.Email || existing.Username == a.Username {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.New()
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccountStore) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) GetByIdentifier(_ context.Context, identifier string) (*model.Account, error) {
	for _, a := range f.accounts {
		if a.Email == identifier || a.Username == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestAccountService() (*AccountService, *fakeAccountStore) {
	store := newFakeAccountStore()
	return NewAccountService(store, NewAuthService(testConfig())), store
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	svc, _ := newTestAccountService()

	account, token, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "ann",
		Email:    "ann@example.com",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Role != model.RoleStudent {
		t.Errorf("Role = %s, want student", account.Role)
	}
	if token == "" {
		t.Error("Register returned empty token")
	}
	if account.PasswordHash == "Str0ng!pass" {
		t.Error("password stored as plaintext")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	req := &model.RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "Str0ng!pass"}
	if _, _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, _, err := svc.Register(ctx, req); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("second Register = %v, want ErrDuplicateAccount", err)
	}
}

func TestAuthenticateByEmailAndUsername(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, &model.RegisterRequest{
		Username: "ann", Email: "ann@example.com", Password: "Str0ng!pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, identifier := range []string{"ann@example.com", "ann"} {
		account, token, err := svc.Authenticate(ctx, identifier, "Str0ng!pass")
		if err != nil {
			t.Fatalf("Authenticate(%q): %v", identifier, err)
		}
		if account.Username != "ann" {
			t.Errorf("Authenticate(%q) username = %s", identifier, account.Username)
		}
		if token == "" {
			t.Errorf("Authenticate(%q) returned empty token", identifier)
		}
	}
}

func TestAuthenticateErrorsAreDistinct(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, &model.RegisterRequest{
		Username: "ann", Email: "ann@example.com", Password: "Str0ng!pass",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Authenticate(ctx, "nobody@example.com", "Str0ng!pass"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("unknown identifier = %v, want ErrAccountNotFound", err)
	}
	if _, _, err := svc.Authenticate(ctx, "ann@example.com", "Wr0ng!pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}
}
