package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/wallet-service/dto"
	"github.com/radieske/bet-simulator/internal/wallet-service/repo"
)

// Repo define a interface de operações de carteira usadas pelo handler HTTP
type Repo interface {
	GetOrCreateWallet(ctx context.Context, userID string, initialCents int64) (walletID string, balance int64, err error)
	Deposit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error)
	Debit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error)
}

// Server expõe endpoints HTTP para operações de carteira (wallet)
type Server struct {
	log          *zap.Logger
	repo         Repo
	initialCents int64 // saldo de boas-vindas para carteiras novas
}

// NewServer instancia o servidor HTTP de wallet
func NewServer(log *zap.Logger, repo Repo, initialCents int64) *Server {
	return &Server{log: log, repo: repo, initialCents: initialCents}
}

// Router retorna o roteador HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/wallet", s.getWallet)        // ?userId=...
	r.Post("/wallet/deposit", s.deposit) // crédito
	r.Post("/wallet/debit", s.debit)     // débito de aposta
	return r
}

// getWallet retorna (ou cria) a carteira e saldo do usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	walletID, bal, err := s.repo.GetOrCreateWallet(r.Context(), userID, s.initialCents)
	if err != nil {
		s.log.Error("get wallet", zap.String("userId", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: userID, WalletID: walletID, BalanceCents: bal})
}

// deposit adiciona saldo à carteira do usuário
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	walletID, bal, err := s.repo.Deposit(r.Context(), req.UserID, req.AmountCents, req.ExternalRef)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: req.UserID, WalletID: walletID, BalanceCents: bal})
}

// debit retira do saldo o valor de uma colocação de cupom
func (s *Server) debit(w http.ResponseWriter, r *http.Request) {
	var req dto.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.AmountCents <= 0 || req.ExternalRef == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	walletID, bal, err := s.repo.Debit(r.Context(), req.UserID, req.AmountCents, req.ExternalRef)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	s.log.Info("wallet debited",
		zap.String("userId", req.UserID),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("external_ref", req.ExternalRef),
		zap.Int64("balance_cents", bal))
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: req.UserID, WalletID: walletID, BalanceCents: bal})
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, repo.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("wallet op", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
