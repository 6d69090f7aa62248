// internal/auth/auth.go
//
// Authentication and account provisioning. Login resolves a username and
// password against the record store and mints a Session value; everything
// downstream receives that session explicitly instead of consulting any
// process-wide current user.

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/PedroCPaez/task-manager/internal/policy"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

// ErrBadCredentials is returned for an unknown username or a wrong
// password. The two cases are not distinguished to the caller.
var ErrBadCredentials = errors.New("auth: invalid username or password")

const saltBytes = 16

// DefaultAdminUsername and DefaultAdminPassword seed the first account
// when the store starts empty, so a fresh install always has an admin
// to log in with.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "password"
)

// Authenticator checks credentials against the record store.
type Authenticator struct {
	store *store.Store
}

// New returns an authenticator backed by the given store.
func New(st *store.Store) *Authenticator {
	return &Authenticator{store: st}
}

// Authenticate verifies the credentials and returns a fresh session.
func (a *Authenticator) Authenticate(username, password string) (task.Session, error) {
	u, err := a.store.User(strings.TrimSpace(username))
	if err != nil {
		return task.Session{}, ErrBadCredentials
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return task.Session{}, ErrBadCredentials
	}
	return task.Session{ID: uuid.New(), User: u.Username, Role: u.Role}, nil
}

// Register provisions a new account. Only admins may register users.
func (a *Authenticator) Register(sess task.Session, username, password string, role task.Role) (task.User, error) {
	if !sess.IsAdmin() {
		return task.User{}, policy.ErrPermissionDenied
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return task.User{}, task.Validationf("username", "must not be empty")
	}
	if password == "" {
		return task.User{}, task.Validationf("password", "must not be empty")
	}
	if role != task.RoleAdmin && role != task.RoleMember {
		return task.User{}, task.Validationf("role", "unknown role %q", role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return task.User{}, err
	}
	u := task.User{Username: username, PasswordHash: hash, Role: role}
	if err := a.store.CreateUser(u); err != nil {
		return task.User{}, err
	}
	return u, nil
}

// EnsureDefaultAdmin seeds the default admin account when the store holds
// no users at all. It reports whether a seed happened so the caller can
// log it.
func EnsureDefaultAdmin(st *store.Store) (bool, error) {
	if len(st.Users()) > 0 {
		return false, nil
	}
	hash, err := HashPassword(DefaultAdminPassword)
	if err != nil {
		return false, err
	}
	err = st.CreateUser(task.User{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Role:         task.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// HashPassword derives a salted SHA-256 digest in salt$digest hex form.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	return hex.EncodeToString(salt) + "$" + digest(salt, password), nil
}

// VerifyPassword checks a password against a stored salt$digest hash.
func VerifyPassword(hash, password string) bool {
	saltHex, want, ok := strings.Cut(hash, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	got := digest(salt, password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func digest(salt []byte, password string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}
