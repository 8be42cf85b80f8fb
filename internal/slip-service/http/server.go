package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
	"github.com/radieske/bet-simulator/internal/slip-service/dto"
	"github.com/radieske/bet-simulator/internal/slip-service/identity"
	"github.com/radieske/bet-simulator/internal/slip-service/odds"
	"github.com/radieske/bet-simulator/internal/slip-service/producer"
	"github.com/radieske/bet-simulator/internal/slip-service/session"
	"github.com/radieske/bet-simulator/internal/slip-service/wallet"
	"github.com/radieske/bet-simulator/internal/slip-service/ws"
	"github.com/radieske/bet-simulator/pkg/contracts/events"
)

// OddsSource monta seleções a partir do quadro (odds-service)
type OddsSource interface {
	Selection(ctx context.Context, gameID, market, side string) (betslip.Selection, error)
}

// Wallet é o saldo do usuário (wallet-service)
type Wallet interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Debit(ctx context.Context, userID string, cents int64, externalRef string) (int64, error)
}

type Publisher interface {
	PublishSlipPlaced(ctx context.Context, e events.SlipPlaced) error
}

// Notifier entrega atualizações do cupom às conexões WebSocket do usuário
type Notifier interface {
	Publish(ctx context.Context, update ws.SlipUpdate) error
}

type Server struct {
	log      *zap.Logger
	store    *session.Store
	auth     identity.Provider
	odds     OddsSource
	wallet   Wallet
	publ     Publisher
	notifier Notifier
	hub      *ws.Hub
	metrics  *slipMetrics
}

// Deps agrupa as dependências do servidor; Publisher, Notifier e Hub são opcionais
type Deps struct {
	Log      *zap.Logger
	Store    *session.Store
	Auth     identity.Provider
	Odds     OddsSource
	Wallet   Wallet
	Publ     Publisher
	Notifier Notifier
	Hub      *ws.Hub
	Registry prometheus.Registerer
}

func NewServer(d Deps) *Server {
	return &Server{
		log:      d.Log,
		store:    d.Store,
		auth:     d.Auth,
		odds:     d.Odds,
		wallet:   d.Wallet,
		publ:     d.Publ,
		notifier: d.Notifier,
		hub:      d.Hub,
		metrics:  newSlipMetrics(d.Registry),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/auth/register", s.register)
	r.Post("/auth/login", s.login)

	// rotas protegidas: exigem Authorization: Bearer <token>
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(s.auth))

		r.Post("/auth/logout", s.logout)
		r.Get("/auth/me", s.me)
		r.Get("/wallet", s.getWallet)

		r.Get("/slip", s.getSlip)
		r.Post("/slip/selections", s.toggleSelection)
		r.Delete("/slip/selections/{id}", s.removeSelection)
		r.Put("/slip/mode", s.setMode)
		r.Put("/slip/stakes/{id}", s.setStake)
		r.Put("/slip/parlay-stake", s.setParlayStake)
		r.Post("/slip/place", s.place)
		r.Get("/slip/ws", s.slipWS)
	})
	return r
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	sess, err := s.auth.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error("register", zap.Error(err))
		writeError(w, http.StatusBadGateway, "identity provider unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, dto.AuthResponse{Session: sess, ConfirmationRequired: sess.AccessToken == ""})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.log.Error("login", zap.Error(err))
		writeError(w, http.StatusBadGateway, "identity provider unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{Session: sess})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFrom(r.Context())
	if err := s.auth.Logout(r.Context(), identity.TokenFrom(r.Context())); err != nil && !errors.Is(err, identity.ErrUnauthenticated) {
		s.log.Warn("logout", zap.String("userId", user.ID), zap.Error(err))
	}
	s.store.Drop(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// withSlip executa fn com o cupom do usuário autenticado e devolve o snapshot resultante
func (s *Server) withSlip(r *http.Request, fn func(e *betslip.Engine) error) (betslip.Snapshot, error) {
	user, _ := identity.UserFrom(r.Context())
	var snap betslip.Snapshot
	err := s.store.With(user.ID, func(e *betslip.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		snap = e.Snapshot()
		return nil
	})
	return snap, err
}

// notify avisa as outras abas do usuário; falha aqui não afeta a resposta
func (s *Server) notify(ctx context.Context, userID, typ string, payload any) {
	if s.notifier == nil {
		return
	}
	upd, err := ws.NewSlipUpdate(userID, typ, payload)
	if err == nil {
		err = s.notifier.Publish(ctx, upd)
	}
	if err != nil {
		s.log.Warn("slip notify", zap.String("userId", userID), zap.String("type", typ), zap.Error(err))
	}
}

// getWallet devolve o saldo de quem está logado; não há como consultar outro usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFrom(r.Context())
	cents, err := s.wallet.Balance(r.Context(), user.ID)
	if err != nil {
		s.log.Error("wallet balance", zap.String("userId", user.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "wallet unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dto.WalletResponse{UserID: user.ID, Balance: oddsmath.FromCents(cents)})
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFrom(r.Context())
	cents, err := s.wallet.Balance(r.Context(), user.ID)
	if err != nil {
		s.log.Error("wallet balance", zap.String("userId", user.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "wallet unavailable")
		return
	}
	balance := oddsmath.FromCents(cents)

	var resp dto.SlipResponse
	_ = s.store.With(user.ID, func(e *betslip.Engine) error {
		resp = dto.SlipResponse{Snapshot: e.Snapshot(), Balance: balance, CanPlace: e.CanPlace(balance)}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) toggleSelection(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" || req.Market == "" || req.Side == "" {
		writeError(w, http.StatusBadRequest, "gameId, market and side required")
		return
	}

	sel, err := s.odds.Selection(r.Context(), req.GameID, req.Market, req.Side)
	switch {
	case errors.Is(err, odds.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, odds.ErrBadSelection):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error("odds selection", zap.Error(err))
		writeError(w, http.StatusBadGateway, "odds unavailable")
		return
	}

	var added bool
	snap, err := s.withSlip(r, func(e *betslip.Engine) error {
		var terr error
		added, terr = e.Toggle(sel)
		return terr
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.toggles.Inc()

	user, _ := identity.UserFrom(r.Context())
	s.notify(r.Context(), user.ID, "snapshot", snap)
	writeJSON(w, http.StatusOK, dto.ToggleResponse{Added: added, Slip: snap})
}

func (s *Server) removeSelection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, _ := s.withSlip(r, func(e *betslip.Engine) error {
		e.Remove(id)
		return nil
	})
	user, _ := identity.UserFrom(r.Context())
	s.notify(r.Context(), user.ID, "snapshot", snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	var req dto.ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	mode, err := betslip.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, _ := s.withSlip(r, func(e *betslip.Engine) error {
		e.SetMode(mode)
		return nil
	})
	user, _ := identity.UserFrom(r.Context())
	s.notify(r.Context(), user.ID, "snapshot", snap)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) setStake(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	id := chi.URLParam(r, "id")
	var resp dto.StakeResponse
	resp.Slip, _ = s.withSlip(r, func(e *betslip.Engine) error {
		resp.Amount = e.SetStake(id, string(req.Amount))
		return nil
	})
	user, _ := identity.UserFrom(r.Context())
	s.notify(r.Context(), user.ID, "snapshot", resp.Slip)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setParlayStake(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	var resp dto.StakeResponse
	resp.Slip, _ = s.withSlip(r, func(e *betslip.Engine) error {
		resp.Amount = e.SetParlayStake(string(req.Amount))
		return nil
	})
	user, _ := identity.UserFrom(r.Context())
	s.notify(r.Context(), user.ID, "snapshot", resp.Slip)
	writeJSON(w, http.StatusOK, resp)
}

// place: saldo da carteira -> PlaceBet com débito na carteira -> evento slip_placed
func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	user, _ := identity.UserFrom(r.Context())
	ctx := r.Context()

	cents, err := s.wallet.Balance(ctx, user.ID)
	if err != nil {
		s.log.Error("wallet balance", zap.String("userId", user.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "wallet unavailable")
		return
	}

	debiter := wallet.NewDebiter(s.wallet, user.ID)
	var (
		placement *betslip.Placement
		snap      betslip.Snapshot
	)
	err = s.store.With(user.ID, func(e *betslip.Engine) error {
		var perr error
		placement, perr = e.PlaceBet(ctx, oddsmath.FromCents(cents), debiter)
		snap = e.Snapshot()
		return perr
	})

	switch {
	case errors.Is(err, betslip.ErrNoStake):
		s.metrics.rejections.WithLabelValues("no_stake").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, dto.RejectedResponse{Error: err.Error(), Slip: snap})
		return
	case errors.Is(err, betslip.ErrInsufficientBalance):
		s.metrics.rejections.WithLabelValues("insufficient_balance").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, dto.RejectedResponse{Error: err.Error(), Slip: snap})
		return
	case errors.Is(err, wallet.ErrInsufficientFunds):
		// saldo mudou entre a leitura e o débito
		s.metrics.rejections.WithLabelValues("wallet_funds").Inc()
		writeJSON(w, http.StatusConflict, dto.RejectedResponse{Error: err.Error(), Slip: snap})
		return
	case err != nil:
		s.metrics.rejections.WithLabelValues("wallet_error").Inc()
		s.log.Error("place bet", zap.String("userId", user.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "wallet unavailable")
		return
	}

	s.metrics.placements.WithLabelValues(string(placement.Mode)).Inc()
	s.metrics.stakedCents.Add(float64(oddsmath.ToCents(placement.TotalStake)))
	s.log.Info("slip placed",
		zap.String("userId", user.ID),
		zap.String("placementId", placement.ID),
		zap.String("mode", string(placement.Mode)),
		zap.Int("legs", len(placement.Legs)),
		zap.String("totalStake", placement.TotalStake.StringFixed(2)),
		zap.Int64("balance_cents", debiter.BalanceCents))

	if s.publ != nil {
		if err := s.publ.PublishSlipPlaced(ctx, producer.NewSlipPlaced(user.ID, placement, debiter.BalanceCents)); err != nil {
			s.log.Warn("publish slip_placed", zap.String("placementId", placement.ID), zap.Error(err))
		}
	}
	s.notify(ctx, user.ID, "placed", placement)
	s.notify(ctx, user.ID, "snapshot", snap)

	writeJSON(w, http.StatusCreated, dto.PlaceResponse{
		Placement: placement,
		Balance:   oddsmath.FromCents(debiter.BalanceCents),
		Slip:      snap,
	})
}

// slipWS abre o canal de atualizações do cupom do usuário
func (s *Server) slipWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusNotFound, "websocket disabled")
		return
	}
	user, _ := identity.UserFrom(r.Context())
	snap, _ := s.withSlip(r, func(*betslip.Engine) error { return nil })
	initial, err := ws.NewSlipUpdate(user.ID, "snapshot", snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.hub.HandleWS(w, r, user.ID, &initial)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
