package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already registered")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session é o resultado de login/registro. AccessToken vazio indica que o
// provedor exige confirmação de e-mail antes do primeiro login
type Session struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         User   `json:"user"`
}

// Provider é o serviço de identidade externo
type Provider interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*User, error)
}

type ctxKey struct{}

type principal struct {
	user  User
	token string
}

// BearerToken extrai o token do header Authorization. No upgrade de WebSocket
// o navegador não manda headers, então aceita também ?access_token=
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) >= 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// Middleware resolve o usuário do token Bearer; sem usuário válido responde 401
func Middleware(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}
			u, err := p.CurrentUser(r.Context(), token)
			if err != nil || u == nil || u.ID == "" {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, principal{user: *u, token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom retorna o usuário autenticado colocado no contexto pelo Middleware
func UserFrom(ctx context.Context) (User, bool) {
	p, ok := ctx.Value(ctxKey{}).(principal)
	return p.user, ok
}

// TokenFrom retorna o token da requisição autenticada
func TokenFrom(ctx context.Context) string {
	p, _ := ctx.Value(ctxKey{}).(principal)
	return p.token
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
}
