package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Targets são os serviços atrás do gateway. A carteira não é exposta
// diretamente: o saldo do usuário logado sai pelo slip-service.
type Targets struct {
	Odds string
	Slip string
}

func rp(to string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(to)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", to)
	}
	return httputil.NewSingleHostReverseProxy(u), nil
}

// NewRouter monta o roteamento público:
//
//	/api/odds/*   -> odds-service (/v1/...)
//	/api/wallet   -> slip-service (/wallet, saldo do usuário autenticado)
//	/api/slip/*   -> slip-service (/slip/...)
//	/api/auth/*   -> slip-service (/auth/...)
func NewRouter(log *zap.Logger, t Targets, limiter *IPLimiter) (http.Handler, error) {
	odds, err := rp(t.Odds)
	if err != nil {
		return nil, err
	}
	slip, err := rp(t.Slip)
	if err != nil {
		return nil, err
	}
	for name, p := range map[string]*httputil.ReverseProxy{"odds": odds, "slip": slip} {
		upstream := name
		p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream error", zap.String("upstream", upstream), zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		}
	}

	// limite por RemoteAddr; X-Forwarded-For é controlado pelo cliente
	r := chi.NewRouter()
	r.Use(withCORS)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// odds (ex.: /api/odds/v1/games -> odds-service /v1/games)
	r.Handle("/api/odds/*", http.StripPrefix("/api/odds", odds))

	// wallet: só leitura e sempre do usuário do token
	r.Get("/api/wallet", http.StripPrefix("/api", slip).ServeHTTP)

	// cupom e autenticação vivem no slip-service
	r.Handle("/api/slip", http.StripPrefix("/api", slip))
	r.Handle("/api/slip/*", http.StripPrefix("/api", slip))
	r.Handle("/api/auth/*", http.StripPrefix("/api", slip))

	return r, nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
