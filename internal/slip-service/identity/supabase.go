package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Supabase fala com a API REST do GoTrue (/auth/v1)
type Supabase struct {
	client *resty.Client
}

func NewSupabase(baseURL, anonKey string) *Supabase {
	baseURL = strings.TrimSuffix(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL+"/auth/v1").
		SetTimeout(5*time.Second).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Supabase{client: client}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// goTrueError cobre os formatos de erro que o GoTrue devolve
type goTrueError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func (e *goTrueError) text() string {
	for _, s := range []string{e.Description, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

// signupResponse: com auto-confirm vem uma sessão, senão vem o usuário direto
type signupResponse struct {
	Session
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Supabase) Register(ctx context.Context, email, password string) (*Session, error) {
	var out signupResponse
	var fail goTrueError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		SetError(&fail).
		Post("/signup")
	if err != nil {
		return nil, fmt.Errorf("supabase signup: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnprocessableEntity || resp.StatusCode() == http.StatusBadRequest {
			if strings.Contains(strings.ToLower(fail.text()), "already") {
				return nil, fmt.Errorf("%w: %s", ErrUserExists, fail.text())
			}
		}
		return nil, fmt.Errorf("supabase signup http %d: %s", resp.StatusCode(), fail.text())
	}

	sess := out.Session
	if sess.User.ID == "" {
		sess.User = User{ID: out.ID, Email: out.Email}
	}
	return &sess, nil
}

func (s *Supabase) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	var fail goTrueError
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		SetError(&fail).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("supabase login: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, fail.text())
		}
		return nil, fmt.Errorf("supabase login http %d: %s", resp.StatusCode(), fail.text())
	}
	return &out, nil
}

func (s *Supabase) Logout(ctx context.Context, token string) error {
	var fail goTrueError
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&fail).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("supabase logout: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.IsError() {
		return fmt.Errorf("supabase logout http %d: %s", resp.StatusCode(), fail.text())
	}
	return nil
}

func (s *Supabase) CurrentUser(ctx context.Context, token string) (*User, error) {
	var out User
	var fail goTrueError
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&fail).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("supabase user: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, ErrUnauthenticated
	}
	if resp.IsError() {
		return nil, fmt.Errorf("supabase user http %d: %s", resp.StatusCode(), fail.text())
	}
	return &out, nil
}
