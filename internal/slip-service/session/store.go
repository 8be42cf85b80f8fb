package session

import (
	"sync"

	"github.com/radieske/bet-simulator/internal/betslip"
)

// Store mantém um cupom (Engine) por usuário, só em memória.
// O acesso a cada cupom é serializado pelo mutex da sessão
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	opts     []betslip.Option
}

type session struct {
	mu     sync.Mutex
	engine *betslip.Engine
}

func NewStore(opts ...betslip.Option) *Store {
	return &Store{sessions: make(map[string]*session), opts: opts}
}

func (s *Store) get(userID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{engine: betslip.New(s.opts...)}
		s.sessions[userID] = sess
	}
	return sess
}

// With executa fn com o cupom do usuário travado; cria o cupom na primeira vez
func (s *Store) With(userID string, fn func(e *betslip.Engine) error) error {
	sess := s.get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.engine)
}

// Drop descarta o cupom do usuário (logout)
func (s *Store) Drop(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
