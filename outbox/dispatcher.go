package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"giggen/logger"
)

// Store claims and settles outbox rows.
type Store interface {
	// ClaimPending atomically claims up to limit pending rows, bumping
	// their attempt counter. Concurrent dispatchers skip each other's rows.
	ClaimPending(ctx context.Context, limit int) ([]Message, error)
	MarkSent(ctx context.Context, ids []string) error
	// MarkFailed returns a claimed row to pending, or parks it as failed
	// once the retry budget is spent.
	MarkFailed(ctx context.Context, id string) error
}

const defaultMaxAttempts = 10

type PGStore struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, maxAttempts: defaultMaxAttempts}
}

const claimPendingSQL = `
UPDATE outbox
SET attempts = attempts + 1
WHERE id IN (
	SELECT id FROM outbox
	WHERE status = 'pending'
	ORDER BY created_at
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, topic, payload, attempts, created_at`

func (s *PGStore) ClaimPending(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, claimPendingSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("outbox: claim pending: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload, &m.Attempts, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("outbox: scan claimed row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox: claim pending: %w", err)
	}
	return out, nil
}

const markSentSQL = `
UPDATE outbox SET status = 'sent', sent_at = now() WHERE id = ANY($1)`

func (s *PGStore) MarkSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, markSentSQL, ids); err != nil {
		return fmt.Errorf("outbox: mark sent: %w", err)
	}
	return nil
}

const markFailedSQL = `
UPDATE outbox
SET status = CASE WHEN attempts >= $2 THEN 'failed' ELSE 'pending' END
WHERE id = $1`

func (s *PGStore) MarkFailed(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, markFailedSQL, id, s.maxAttempts); err != nil {
		return fmt.Errorf("outbox: mark failed: %w", err)
	}
	return nil
}

// Dispatcher periodically drains the outbox table to the broker.
type Dispatcher struct {
	store     Store
	publisher Publisher
	log       *logger.Logger
	interval  time.Duration
	batchSize int
}

func NewDispatcher(store Store, publisher Publisher, log *logger.Logger, interval time.Duration, batchSize int) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run drains on a fixed interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if err := d.Drain(ctx); err != nil {
			d.log.Errorf("outbox", "drain: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain claims one batch and publishes each message. Rows that publish are
// settled together; a failed publish returns its row for a later retry.
func (d *Dispatcher) Drain(ctx context.Context) error {
	batch, err := d.store.ClaimPending(ctx, d.batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	sent := make([]string, 0, len(batch))
	for _, msg := range batch {
		if err := d.publisher.Publish(ctx, msg.Topic, msg.Payload); err != nil {
			d.log.Warnf("outbox", "publish %s (attempt %d): %v", msg.Topic, msg.Attempts, err)
			if err := d.store.MarkFailed(ctx, msg.ID); err != nil {
				d.log.Errorf("outbox", "mark failed %s: %v", msg.ID, err)
			}
			continue
		}
		sent = append(sent, msg.ID)
	}

	if err := d.store.MarkSent(ctx, sent); err != nil {
		return err
	}
	if len(sent) > 0 {
		d.log.Infof("outbox", "delivered %d event(s)", len(sent))
	}
	return nil
}
