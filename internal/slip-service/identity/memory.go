package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Memory é um provedor local para desenvolvimento sem Supabase.
// Usuários e tokens vivem só na memória do processo
type Memory struct {
	mu     sync.RWMutex
	users  map[string]memUser // email -> usuário
	tokens map[string]User    // token -> usuário
	cost   int
}

type memUser struct {
	user User
	hash []byte
}

func NewMemory() *Memory {
	return &Memory{
		users:  map[string]memUser{},
		tokens: map[string]User{},
		cost:   bcrypt.DefaultCost,
	}
}

func (m *Memory) Register(_ context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, ErrUserExists
	}
	u := User{ID: uuid.NewString(), Email: email}
	m.users[email] = memUser{user: u, hash: hash}
	return m.issue(u), nil
}

func (m *Memory) Login(_ context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.users[email]
	if !ok || bcrypt.CompareHashAndPassword(rec.hash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return m.issue(rec.user), nil
}

// issue exige m.mu travado
func (m *Memory) issue(u User) *Session {
	token := uuid.NewString()
	m.tokens[token] = u
	return &Session{AccessToken: token, ExpiresIn: 3600, User: u}
}

func (m *Memory) Logout(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return ErrUnauthenticated
	}
	delete(m.tokens, token)
	return nil
}

func (m *Memory) CurrentUser(_ context.Context, token string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.tokens[token]
	if !ok {
		return nil, ErrUnauthenticated
	}
	return &u, nil
}
