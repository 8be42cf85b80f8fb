package db

var schema = []string{
	// odds-service: quadro de jogos com cotações americanas
	`CREATE TABLE IF NOT EXISTS games (
		id            TEXT PRIMARY KEY,
		league        TEXT NOT NULL,
		home_team     TEXT NOT NULL,
		away_team     TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		ml_home       INTEGER NOT NULL,
		ml_away       INTEGER NOT NULL,
		spread_home   NUMERIC(6,1) NOT NULL,
		spread_home_odds INTEGER NOT NULL,
		spread_away   NUMERIC(6,1) NOT NULL,
		spread_away_odds INTEGER NOT NULL,
		total_line    NUMERIC(6,1) NOT NULL,
		total_over_odds  INTEGER NOT NULL,
		total_under_odds INTEGER NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS games_league_idx ON games (league)`,

	// wallet-service: saldo virtual em centavos
	`CREATE TABLE IF NOT EXISTS wallets (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL UNIQUE,
		balance_cents BIGINT NOT NULL CHECK (balance_cents >= 0),
		version       BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_ledger (
		id             BIGSERIAL PRIMARY KEY,
		wallet_id      TEXT NOT NULL REFERENCES wallets(id),
		operation_type TEXT NOT NULL,
		amount_cents   BIGINT NOT NULL,
		external_ref   TEXT,
		description    TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS wallet_ledger_ref_idx
		ON wallet_ledger (wallet_id, operation_type, external_ref)
		WHERE external_ref IS NOT NULL AND external_ref <> ''`,
}
