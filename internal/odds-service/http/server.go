package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/odds-service/board"
	"github.com/radieske/bet-simulator/internal/odds-service/cache"
	"github.com/radieske/bet-simulator/internal/odds-service/dto"
)

// GameRepo é a fonte de leitura do quadro (Postgres em produção)
type GameRepo interface {
	ListGames(ctx context.Context, league string) ([]dto.Game, error)
	GetGame(ctx context.Context, id string) (dto.Game, error)
	ListLeagues(ctx context.Context) ([]dto.League, error)
}

// JSONCache é o cache de leitura (Redis em produção)
type JSONCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// API expõe os endpoints REST do quadro de odds
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	Log   *zap.Logger
	Repo  GameRepo  // acesso ao banco de dados
	Cache JSONCache // cache de jogos; opcional
	TTL   time.Duration
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/leagues", a.listLeagues)                                    // Ligas e contagem de jogos
	r.Get("/v1/games", a.listGames)                                        // ?league=nba|all
	r.Get("/v1/games/{id}", a.getGame)                                     // Um jogo
	r.Get("/v1/games/{id}/selections/{market}/{side}", a.previewSelection) // Seleção com odd decimal
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *API) ttl() time.Duration {
	if a.TTL <= 0 {
		return 30 * time.Second
	}
	return a.TTL
}

// cached tenta o cache e, em caso de miss, carrega do repositório e grava no cache
func (a *API) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if a.Cache != nil {
		if ok, err := a.Cache.Get(ctx, key, dst); err == nil && ok {
			return nil
		} else if err != nil {
			a.Log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := load()
	if err != nil {
		return err
	}
	if a.Cache != nil {
		if err := a.Cache.Set(ctx, key, v, a.ttl()); err != nil {
			a.Log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	// reaproveita o mesmo caminho de decodificação do cache
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// listLeagues retorna as ligas disponíveis
func (a *API) listLeagues(w http.ResponseWriter, r *http.Request) {
	var out []dto.League
	err := a.cached(r.Context(), cache.KeyLeagues(), &out, func() (any, error) {
		return a.Repo.ListLeagues(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// listGames retorna os jogos de uma liga, preferencialmente do cache
func (a *API) listGames(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		league = board.AllLeagues
	}

	var out []dto.Game
	err := a.cached(r.Context(), cache.KeyBoard(league), &out, func() (any, error) {
		return a.Repo.ListGames(r.Context(), league)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) loadGame(ctx context.Context, id string) (dto.Game, error) {
	var g dto.Game
	err := a.cached(ctx, cache.KeyGame(id), &g, func() (any, error) {
		return a.Repo.GetGame(ctx, id)
	})
	return g, err
}

// getGame retorna um jogo pelo id
func (a *API) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := a.loadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, board.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// previewSelection monta a seleção que o cupom vai receber para o clique (jogo, mercado, lado)
func (a *API) previewSelection(w http.ResponseWriter, r *http.Request) {
	market, err := board.ParseMarket(chi.URLParam(r, "market"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	g, err := a.loadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, board.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sel, err := board.BuildSelection(g, market, chi.URLParam(r, "side"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
