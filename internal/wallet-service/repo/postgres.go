package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa operações de carteira em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// GetOrCreateWallet retorna o walletId e saldo de um usuário, criando a carteira
// com o saldo inicial do simulador se não existir
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string, initialCents int64) (walletID string, balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	var bal int64
	err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM wallets WHERE user_id=$1`, userID).Scan(&id, &bal)
	if errors.Is(err, sql.ErrNoRows) {
		id = uuid.New().String()
		// ON CONFLICT cobre duas criações concorrentes para o mesmo usuário
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO wallets(id, user_id, balance_cents, version) VALUES($1,$2,$3,1)
			ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			RETURNING id, balance_cents`,
			id, userID, initialCents).Scan(&id, &bal); err != nil {
			return "", 0, err
		}
		if initialCents > 0 {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description)
				VALUES($1,'CREDIT',$2,'initial','initial balance')
				ON CONFLICT DO NOTHING`, id, initialCents); err != nil {
				return "", 0, err
			}
		}
	} else if err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}

	return id, bal, nil
}

// lockWallet trava a linha da carteira do usuário até o fim da transação
func lockWallet(ctx context.Context, tx *sql.Tx, userID string) (id string, balance int64, err error) {
	err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&id, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	return id, balance, err
}

// ledgerHas indica se a operação já foi registrada para o external_ref
func ledgerHas(ctx context.Context, tx *sql.Tx, walletID, op, externalRef string) (bool, error) {
	if externalRef == "" {
		return false, nil
	}
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM wallet_ledger WHERE wallet_id=$1 AND operation_type=$2 AND external_ref=$3`,
		walletID, op, externalRef).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Deposit incrementa o saldo da carteira e registra a operação no ledger
// Garante lock pessimista na linha da carteira
func (p *Postgres) Deposit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error) {
	return p.apply(ctx, userID, "CREDIT", amount, externalRef, "deposit")
}

// Debit retira o valor apostado do saldo. Falha com ErrInsufficientFunds sem
// alterar nada; repetir o mesmo external_ref não debita de novo
func (p *Postgres) Debit(ctx context.Context, userID string, amount int64, externalRef string) (walletID string, newBalance int64, err error) {
	return p.apply(ctx, userID, "DEBIT", -amount, externalRef, "slip")
}

func (p *Postgres) apply(ctx context.Context, userID, op string, delta int64, externalRef, desc string) (string, int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	id, balance, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return "", 0, err
	}

	// Idempotência: mesma operação com o mesmo external_ref já aplicada
	done, err := ledgerHas(ctx, tx, id, op, externalRef)
	if err != nil {
		return "", 0, err
	}
	if done {
		return id, balance, nil
	}

	if balance+delta < 0 {
		return "", 0, ErrInsufficientFunds
	}

	var newBalance int64
	if err = tx.QueryRowContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2 RETURNING balance_cents`,
		delta, id).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, external_ref, description) VALUES($1,$2,$3,$4,$5)`,
		id, op, amount, nullIfEmpty(externalRef), desc+":"+externalRef); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
