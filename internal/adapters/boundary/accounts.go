package boundary

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/okian/finesse/internal/domain/model"
)

type account struct {
	userID   string
	userType model.UserType
	hash     []byte
}

// accounts maps normalized emails to registered accounts.
type accounts struct {
	mu     sync.RWMutex
	byMail map[string]account
	cost   int
}

func newAccounts(cost int) *accounts {
	return &accounts{byMail: make(map[string]account), cost: cost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// prehash keeps bcrypt's input under its 72 byte limit for any password.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// register hashes password and stores the account. Hashing happens
// outside the lock.
func (a *accounts) register(email, password, userID string, userType model.UserType) error {
	key := normalizeEmail(email)

	a.mu.RLock()
	_, taken := a.byMail[key]
	a.mu.RUnlock()
	if taken {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(password), a.cost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, taken := a.byMail[key]; taken {
		return ErrEmailTaken
	}
	a.byMail[key] = account{userID: userID, userType: userType, hash: hash}
	return nil
}

// verify returns the account for email. found is false for unknown emails.
func (a *accounts) verify(email, password string) (acc account, found bool, err error) {
	a.mu.RLock()
	acc, found = a.byMail[normalizeEmail(email)]
	a.mu.RUnlock()
	if !found {
		return account{}, false, nil
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, prehash(password)); err != nil {
		return account{}, true, ErrInvalidCredentials
	}
	return acc, true, nil
}

func (a *accounts) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byMail)
}
