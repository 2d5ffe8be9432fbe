package credentials

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pquerna/otp/totp"

	"github.com/spectrelabs/authgate/pkg/cryptox"
)

type memoryUser struct {
	passwordHash string
	roles        []string
	totpSecret   string
}

// MemorySource is a concurrency-safe in-memory credential source.
// Passwords are stored as Argon2id hashes; plaintexts are discarded
// the moment Add returns.
type MemorySource struct {
	mu    sync.RWMutex
	users map[string]memoryUser
}

func NewMemorySource() *MemorySource {
	return &MemorySource{users: make(map[string]memoryUser)}
}

// Add registers a user, hashing the password. Re-adding an existing
// username replaces the record.
func (s *MemorySource) Add(username, password string, roles ...string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", username, err)
	}

	s.mu.Lock()
	s.users[username] = memoryUser{passwordHash: hash, roles: roles}
	s.mu.Unlock()
	return nil
}

// EnrollTOTP attaches a TOTP secret to an existing user, after which
// logins require a valid one-time code.
func (s *MemorySource) EnrollTOTP(username, secret string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return false
	}
	u.totpSecret = secret
	s.users[username] = u
	return true
}

func (s *MemorySource) VerifyCredentials(_ context.Context, username, password string) (UserRecord, bool) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()

	// Verify outside the lock; Argon2id is deliberately slow.
	if !ok || cryptox.VerifyPassword(password, u.passwordHash) != nil {
		return UserRecord{}, false
	}

	return UserRecord{ID: username, Roles: append([]string(nil), u.roles...)}, true
}

func (s *MemorySource) RequiresTOTP(_ context.Context, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[username].totpSecret != ""
}

func (s *MemorySource) VerifyTOTP(_ context.Context, username, code string) bool {
	s.mu.RLock()
	secret := s.users[username].totpSecret
	s.mu.RUnlock()

	if secret == "" {
		return false
	}
	return totp.Validate(code, secret)
}

// ParseSeed loads users from the AUTH_SEED_USERS format:
// "user:password:role1|role2,user2:password2". Roles are optional.
func ParseSeed(seed string) (*MemorySource, error) {
	src := NewMemorySource()

	for _, entry := range strings.Split(seed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("credentials: malformed seed entry %q", redactEntry(entry))
		}

		var roles []string
		if len(parts) == 3 && parts[2] != "" {
			roles = strings.Split(parts[2], "|")
		}

		if err := src.Add(parts[0], parts[1], roles...); err != nil {
			return nil, err
		}
	}

	return src, nil
}

// redactEntry keeps any password out of the error message.
func redactEntry(entry string) string {
	username, _, found := strings.Cut(entry, ":")
	if !found {
		return entry
	}
	return username + ":***"
}
