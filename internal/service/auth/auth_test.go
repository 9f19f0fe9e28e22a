package auth

import (
	"testing"

	"github.com/pkg/errors"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
	"github.com/vantoan19/CodeToGive-backend/internal/protodef/model"
	"github.com/vantoan19/CodeToGive-backend/internal/service/inmem"
)

func newTestService() *Service {
	store := inmem.NewStore()
	return NewService(store, store, "test-key", nil)
}

func TestRegisterLoginIdentify(t *testing.T) {
	s := newTestService()
	user, token, err := s.Register(nil, &model.UserDo{Account: "student01", AccountType: model.AccountTypeStudent}, "secret123")
	if err != nil {
		t.Fatalf("Register error %v", err)
	}
	if user.Password == "secret123" || user.Password == "" {
		t.Errorf("password stored as %q, want bcrypt hash", user.Password)
	}
	got, err := s.Identify(nil, token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("Identify = %v, %v", got, err)
	}

	_, token2, err := s.Login(nil, "student01", "secret123")
	if err != nil {
		t.Fatalf("Login error %v", err)
	}
	if token2 == token {
		t.Errorf("login reused the registration token")
	}
	if _, _, err = s.Login(nil, "student01", "wrong"); !errors.Is(err, serrors.ErrUnauthenticated) {
		t.Errorf("Login with wrong password error = %v", err)
	}
	if _, _, err = s.Login(nil, "nobody00", "secret123"); !errors.Is(err, serrors.ErrUnauthenticated) {
		t.Errorf("Login unknown account error = %v", err)
	}
}

func TestDuplicateAccount(t *testing.T) {
	s := newTestService()
	if _, _, err := s.Register(nil, &model.UserDo{Account: "student01"}, "secret123"); err != nil {
		t.Fatal(err)
	}
	_, _, err := s.Register(nil, &model.UserDo{Account: "student01"}, "secret456")
	if !errors.Is(err, serrors.ErrDuplicate) {
		t.Errorf("second Register error = %v, want Duplicate", err)
	}
}

func TestLogout(t *testing.T) {
	s := newTestService()
	user, t1, err := s.Register(nil, &model.UserDo{Account: "student01"}, "secret123")
	if err != nil {
		t.Fatal(err)
	}
	_, t2, _ := s.Login(nil, "student01", "secret123")
	_, t3, _ := s.Login(nil, "student01", "secret123")

	if err = s.Logout(nil, t1); err != nil {
		t.Fatal(err)
	}
	if _, err = s.Identify(nil, t1); !errors.Is(err, serrors.ErrUnauthenticated) {
		t.Errorf("Identify after logout error = %v", err)
	}
	if _, err = s.Identify(nil, t2); err != nil {
		t.Errorf("other token revoked by Logout: %v", err)
	}
	if err = s.LogoutAll(nil, user.ID); err != nil {
		t.Fatal(err)
	}
	for _, tok := range []string{t2, t3} {
		if _, err = s.Identify(nil, tok); !errors.Is(err, serrors.ErrUnauthenticated) {
			t.Errorf("Identify after logout-all error = %v", err)
		}
	}
}

func TestIdentifyRejectsForeignSignature(t *testing.T) {
	s := newTestService()
	other := NewService(inmem.NewStore(), inmem.NewStore(), "other-key", nil)
	_, token, err := other.Register(nil, &model.UserDo{Account: "student01"}, "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = s.Identify(nil, token); !errors.Is(err, serrors.ErrUnauthenticated) {
		t.Errorf("Identify foreign token error = %v", err)
	}
	if _, err = s.Identify(nil, "not-a-jwt"); !errors.Is(err, serrors.ErrUnauthenticated) {
		t.Errorf("Identify garbage error = %v", err)
	}
}
