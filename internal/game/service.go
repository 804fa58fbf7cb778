// Package game binds the simulation core to Postgres. Every mutating
// operation runs in a serializable transaction against the player's single
// state row, so a turn either commits whole or not at all.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"omerta/internal/content"
	"omerta/internal/feed"
	"omerta/internal/sim"
)

var (
	ErrDuplicateIdempotency = errors.New("duplicate idempotency key")
	ErrTxConflict           = errors.New("transaction conflict, retry")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrNoGang               = errors.New("join a gang first")
)

// Service owns the database access for player state, the world row and the
// cross-player aggregates.
type Service struct {
	db     *pgxpool.Pool
	log    *slog.Logger
	feed   *feed.Publisher
	tuning sim.Tuning

	mu   sync.Mutex
	rand *mathrand.Rand
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, publisher *feed.Publisher, tuning sim.Tuning) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		log:    logger,
		feed:   publisher,
		tuning: tuning,
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// rng hands the shared source to one simulation call at a time.
func (s *Service) rng() *mathrand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mathrand.New(mathrand.NewSource(s.rand.Int63()))
}

// EnsurePlayer creates the profile and starting state row on first login.
func (s *Service) EnsurePlayer(ctx context.Context, userID, email, username, gang string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = usernameFromEmail(email)
	}
	start := sim.NewPlayerState()
	raw, err := json.Marshal(start)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO omerta.profiles (user_id, email, username, gang)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (user_id) DO NOTHING
	`, userID, email, username, strings.TrimSpace(gang)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO omerta.players (user_id, day, net_worth, heat, personal_heat, debt, state)
		VALUES ($1, $2, $3, 0, 0, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, start.Day, start.NetWorth(), start.Debt, raw); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// loadStateTx reads and locks the player's state row.
func loadStateTx(ctx context.Context, tx pgx.Tx, userID string) (*sim.PlayerState, error) {
	var raw []byte
	err := tx.QueryRow(ctx, `
		SELECT state
		FROM omerta.players
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	var st sim.PlayerState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode player state: %w", err)
	}
	if st.Holdings == nil {
		st.Holdings = map[content.Stock]sim.Holding{}
	}
	return &st, nil
}

// saveStateTx writes the state document and refreshes the denormalised
// columns the leaderboard queries read.
func saveStateTx(ctx context.Context, tx pgx.Tx, userID string, st *sim.PlayerState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `
		UPDATE omerta.players
		SET state = $1,
		    day = $2,
		    net_worth = $3,
		    heat = $4,
		    personal_heat = $5,
		    debt = $6,
		    updated_at = now()
		WHERE user_id = $7
	`, raw, st.Day, st.NetWorth(), st.Heat, st.PersonalHeat, st.Debt, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// State returns a read-only snapshot of the player's state.
func (s *Service) State(ctx context.Context, userID string) (*sim.PlayerState, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT state FROM omerta.players WHERE user_id = $1
	`, userID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	var st sim.PlayerState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode player state: %w", err)
	}
	return &st, nil
}

// withSerializableTx runs fn inside a serializable transaction, retrying on
// SQLSTATE 40001 with exponential backoff.
func (s *Service) withSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	const maxAttempts = 8
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return err
		}
		err = func() error {
			defer tx.Rollback(ctx)
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			return nil
		}
		if !isSerializationError(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			return ErrTxConflict
		}
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}
	return ErrTxConflict
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// claimIdempotency rejects replays of the same mutating request.
func claimIdempotency(ctx context.Context, tx pgx.Tx, userID, key, action string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("idempotency key is required")
	}
	cmd, err := tx.Exec(ctx, `
		INSERT INTO omerta.idempotency_keys (user_id, key, action, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, key) DO NOTHING
	`, userID, key, action)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateIdempotency
	}
	return nil
}

// appendLedgerEntries records the clean and dirty money deltas of one action
// as double-entry rows sharing a transaction group id.
func appendLedgerEntries(ctx context.Context, tx pgx.Tx, userID, action string, cleanDelta, dirtyDelta int64) error {
	if cleanDelta == 0 && dirtyDelta == 0 {
		return nil
	}
	txID := uuid.NewString()
	meta, _ := json.Marshal(map[string]any{"action": action})
	write := func(account string, delta int64) error {
		if delta == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO omerta.ledger_entries (tx_group_id, user_id, account, delta, metadata)
			VALUES
			($1, $2, $3, $4, $5::jsonb),
			($1, $2, 'counterparty', $6, $5::jsonb)
		`, txID, userID, account, delta, string(meta), -delta)
		return err
	}
	if err := write("wallet", cleanDelta); err != nil {
		return err
	}
	return write("dirty_wallet", dirtyDelta)
}

// publish sends a feed event without blocking the request path.
func (s *Service) publish(subject string, payload any) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(subject, payload); err != nil {
		s.log.Warn("feed publish failed", "subject", subject, "err", err)
	}
}

func usernameFromEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "player"
	}
	name := email[:at]
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	res := strings.Trim(string(out), "_")
	if len(res) < 3 {
		res = "player_" + res
	}
	if len(res) > 24 {
		res = res[:24]
	}
	return res
}
