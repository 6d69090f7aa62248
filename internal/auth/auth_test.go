package auth

import (
	"errors"
	"testing"

	"github.com/PedroCPaez/task-manager/internal/policy"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

func newStoreWithAdmin(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	seeded, err := EnsureDefaultAdmin(st)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if !seeded {
		t.Fatalf("expected empty store to be seeded")
	}
	return st
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("password stored in the clear")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}

	other, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if other == hash {
		t.Fatalf("two hashes of the same password must differ by salt")
	}
}

func TestAuthenticate(t *testing.T) {
	st := newStoreWithAdmin(t)
	a := New(st)

	sess, err := a.Authenticate(DefaultAdminUsername, DefaultAdminPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if sess.User != DefaultAdminUsername || sess.Role != task.RoleAdmin {
		t.Fatalf("session = %+v", sess)
	}
	if sess.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("session id not minted")
	}

	if _, err := a.Authenticate(DefaultAdminUsername, "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := a.Authenticate("ghost", "nope"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown user: got %v, want ErrBadCredentials", err)
	}
}

func TestRegisterRequiresAdmin(t *testing.T) {
	st := newStoreWithAdmin(t)
	a := New(st)
	adminSess, err := a.Authenticate(DefaultAdminUsername, DefaultAdminPassword)
	if err != nil {
		t.Fatal(err)
	}

	u, err := a.Register(adminSess, "alice", "pw", task.RoleMember)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != task.RoleMember {
		t.Fatalf("role = %s, want member", u.Role)
	}

	aliceSess, err := a.Authenticate("alice", "pw")
	if err != nil {
		t.Fatalf("new user cannot log in: %v", err)
	}
	if _, err := a.Register(aliceSess, "eve", "pw", task.RoleMember); !errors.Is(err, policy.ErrPermissionDenied) {
		t.Fatalf("member registration: got %v, want ErrPermissionDenied", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	st := newStoreWithAdmin(t)
	a := New(st)
	adminSess, err := a.Authenticate(DefaultAdminUsername, DefaultAdminPassword)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		username string
		password string
		role     task.Role
	}{
		{"empty username", "  ", "pw", task.RoleMember},
		{"empty password", "carol", "", task.RoleMember},
		{"unknown role", "carol", "pw", task.Role("root")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Register(adminSess, tc.username, tc.password, tc.role)
			var validation *task.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("got %v, want ValidationError", err)
			}
		})
	}

	if _, err := a.Register(adminSess, DefaultAdminUsername, "pw", task.RoleMember); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("duplicate username: got %v, want ErrUserExists", err)
	}
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	st := newStoreWithAdmin(t)
	seeded, err := EnsureDefaultAdmin(st)
	if err != nil {
		t.Fatal(err)
	}
	if seeded {
		t.Fatalf("second seed must be a no-op")
	}
	if got := len(st.Users()); got != 1 {
		t.Fatalf("user count = %d, want 1", got)
	}
}
