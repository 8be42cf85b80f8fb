package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/radieske/bet-simulator/internal/odds-service/board"
	"github.com/radieske/bet-simulator/internal/odds-service/dto"
)

// Postgres implementa leitura e escrita do quadro de jogos na tabela games
type Postgres struct {
	DB *sql.DB
}

// NewPostgres retorna uma instância do repositório de jogos
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{DB: db} }

const gameColumns = `id, league, home_team, away_team, start_time,
	ml_home, ml_away,
	spread_home, spread_home_odds, spread_away, spread_away_odds,
	total_line, total_over_odds, total_under_odds`

type scanner interface{ Scan(dest ...any) error }

func scanGame(s scanner) (dto.Game, error) {
	var g dto.Game
	err := s.Scan(&g.ID, &g.League, &g.HomeTeam, &g.AwayTeam, &g.StartTime,
		&g.Moneyline.Home, &g.Moneyline.Away,
		&g.Spread.Home, &g.Spread.HomeOdds, &g.Spread.Away, &g.Spread.AwayOdds,
		&g.Total.Line, &g.Total.OverOdds, &g.Total.UnderOdds)
	return g, err
}

// UpsertGame insere ou atualiza um jogo (ON CONFLICT por id)
func (r *Postgres) UpsertGame(ctx context.Context, g dto.Game) error {
	const q = `
		INSERT INTO games (` + gameColumns + `, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW())
		ON CONFLICT (id) DO UPDATE SET
		  league           = EXCLUDED.league,
		  home_team        = EXCLUDED.home_team,
		  away_team        = EXCLUDED.away_team,
		  start_time       = EXCLUDED.start_time,
		  ml_home          = EXCLUDED.ml_home,
		  ml_away          = EXCLUDED.ml_away,
		  spread_home      = EXCLUDED.spread_home,
		  spread_home_odds = EXCLUDED.spread_home_odds,
		  spread_away      = EXCLUDED.spread_away,
		  spread_away_odds = EXCLUDED.spread_away_odds,
		  total_line       = EXCLUDED.total_line,
		  total_over_odds  = EXCLUDED.total_over_odds,
		  total_under_odds = EXCLUDED.total_under_odds,
		  updated_at       = NOW()
	`
	_, err := r.DB.ExecContext(ctx, q,
		g.ID, g.League, g.HomeTeam, g.AwayTeam, g.StartTime,
		g.Moneyline.Home, g.Moneyline.Away,
		g.Spread.Home, g.Spread.HomeOdds, g.Spread.Away, g.Spread.AwayOdds,
		g.Total.Line, g.Total.OverOdds, g.Total.UnderOdds,
	)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}
	return nil
}

// Seed grava todos os jogos do catálogo
func (r *Postgres) Seed(ctx context.Context, c *board.Catalog) (int, error) {
	games := c.Games(board.AllLeagues)
	for _, g := range games {
		if err := r.UpsertGame(ctx, g); err != nil {
			return 0, err
		}
	}
	return len(games), nil
}

// ListGames retorna os jogos de uma liga ("all" ou vazio = todos)
func (r *Postgres) ListGames(ctx context.Context, league string) ([]dto.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games`
	var args []any
	if league != "" && !strings.EqualFold(league, board.AllLeagues) {
		q += ` WHERE UPPER(league) = UPPER($1)`
		args = append(args, league)
	}
	q += ` ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGame busca um jogo; board.ErrGameNotFound se não existir
func (r *Postgres) GetGame(ctx context.Context, id string) (dto.Game, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dto.Game{}, fmt.Errorf("%w: %s", board.ErrGameNotFound, id)
	}
	return g, err
}

// ListLeagues conta jogos por liga
func (r *Postgres) ListLeagues(ctx context.Context) ([]dto.League, error) {
	const q = `
		SELECT league, COUNT(*)
		FROM games
		GROUP BY league
		ORDER BY league;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.League{}
	for rows.Next() {
		var l dto.League
		if err := rows.Scan(&l.League, &l.Games); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
