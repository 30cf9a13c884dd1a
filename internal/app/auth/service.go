/*
Package auth implements the mock authentication service.

Login is total: every email/password pair yields a usable session. The
three-tier fallback (fixed demo account, registered mock user, synthesized
demo identity) trades authentication rigor for demo availability on purpose.
Registered users live in memory for the lifetime of the process and are
never persisted.
*/
package auth

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"agrow/internal/app/user"
	"agrow/internal/pkg/logx"
	"agrow/internal/pkg/randx"
)

const (
	// DemoEmail and DemoPassword identify the fixed demo account.
	DemoEmail    = "test@example.com"
	DemoPassword = "password"

	// demoUserID is the fixed id of the demo account. The registration
	// counter starts well above it.
	demoUserID      = 1
	firstUserID     = 1000
	fallbackSurname = "User"
)

// registeredUser is a mock account created by Register. Passwords are
// bcrypt-hashed even though nothing else about this service is real.
type registeredUser struct {
	id           int64
	firstName    string
	lastName     string
	email        string
	passwordHash []byte
}

// Service holds the process-lifetime registered-user list. Constructed once
// at startup and passed to handlers; no package-level state.
type Service struct {
	mu    sync.Mutex
	users []registeredUser
	ids   *randx.IDSource
}

// NewService creates an empty Service.
func NewService() *Service {
	return &Service{ids: randx.NewIDSource(firstUserID)}
}

// Login resolves credentials to a session. It never fails:
//
//  1. the fixed demo credential yields the premium demo identity,
//  2. a registered user match yields a free session with the stored identity,
//  3. anything else yields a synthesized demo session whose first name is
//     the local part of the email.
//
// Every branch mints a fresh opaque token.
func (s *Service) Login(email, password string) *user.Session {
	if email == DemoEmail && password == DemoPassword {
		return &user.Session{
			Token: randx.SessionToken(),
			User: user.Profile{
				ID:        demoUserID,
				FirstName: "Test",
				LastName:  "User",
				Email:     DemoEmail,
				Plan:      user.PlanPremium,
			},
		}
	}

	if u, ok := s.findUser(email, password); ok {
		return &user.Session{
			Token: randx.SessionToken(),
			User: user.Profile{
				ID:        u.id,
				FirstName: u.firstName,
				LastName:  u.lastName,
				Email:     u.email,
				Plan:      user.PlanFree,
			},
		}
	}

	return &user.Session{
		Token: randx.SessionToken(),
		User: user.Profile{
			ID:        s.ids.Next(),
			FirstName: localPart(email),
			LastName:  fallbackSurname,
			Email:     email,
			Plan:      user.PlanDemo,
		},
	}
}

// Register unconditionally appends a new registered user and returns a free
// session wrapping it. Emails are not checked for uniqueness: duplicate
// registrations create distinct records, and login resolves to the first
// match in insertion order.
func (s *Service) Register(firstName, lastName, email, password string) *user.Session {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable with an invalid cost; the account is still created
		// but can never be logged into again.
		logx.Error(err, "failed to hash registration password", "email", email)
		hash = nil
	}

	u := registeredUser{
		id:           s.ids.Next(),
		firstName:    firstName,
		lastName:     lastName,
		email:        email,
		passwordHash: hash,
	}

	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()

	return &user.Session{
		Token: randx.SessionToken(),
		User: user.Profile{
			ID:        u.id,
			FirstName: u.firstName,
			LastName:  u.lastName,
			Email:     u.email,
			Plan:      user.PlanFree,
		},
	}
}

func (s *Service) findUser(email, password string) (registeredUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.email != email || u.passwordHash == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) == nil {
			return u, true
		}
	}

	return registeredUser{}, false
}

// localPart returns the substring of email before the first "@", or the
// whole string when there is none.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
