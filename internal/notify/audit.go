package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one audited notification attempt. Channel is "email" or "push";
// for pushes Recipients holds the broadcast audience size rather than
// addresses.
type Entry struct {
	Channel    string    `json:"channel"`
	Subject    string    `json:"subject"`
	Recipients int       `json:"recipients"`
	BookingID  string    `json:"booking_id,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// BatchInserter persists audit entries. It exists to allow testing the
// collector without a real database.
type BatchInserter interface {
	BatchInsert(ctx context.Context, entries []Entry) error
}

// AuditStore writes notification audit entries to Postgres.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

// BatchInsert writes a slice of entries in a single multi-row INSERT.
// It is a no-op when entries is empty.
func (s *AuditStore) BatchInsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	const cols = 7
	args := make([]any, 0, len(entries)*cols)
	rows := make([]string, 0, len(entries))

	for i, e := range entries {
		base := i * cols
		rows = append(rows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		var bookingID any
		if e.BookingID != "" {
			bookingID = e.BookingID
		}
		args = append(args,
			e.Channel,
			e.Subject,
			e.Recipients,
			bookingID,
			e.Success,
			e.Error,
			e.SentAt,
		)
	}

	query := `INSERT INTO notification_log
		(channel, subject, recipients, booking_id, success, error, sent_at)
		VALUES ` + strings.Join(rows, ", ")

	_, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("batch inserting notification log: %w", err)
	}

	return nil
}

// Collector buffers audit entries in memory and periodically flushes them to
// the store in batches. It is safe for concurrent use.
type Collector struct {
	store         BatchInserter
	buffer        []Entry
	mu            sync.Mutex
	batchSize     int
	flushInterval time.Duration
	done          chan struct{}
}

// NewCollector creates a Collector that flushes when the buffer reaches
// batchSize or every flushInterval, whichever comes first.
func NewCollector(store BatchInserter, batchSize int, flushInterval time.Duration) *Collector {
	return &Collector{
		store:         store,
		buffer:        make([]Entry, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}
}

// Start begins a background goroutine that flushes buffered entries on a
// timer. It blocks until Stop is called or the context is cancelled.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-ctx.Done():
			c.flush()
			return
		case <-c.done:
			c.flush()
			return
		}
	}
}

// Record adds an entry to the buffer. If the buffer reaches batchSize,
// a flush is triggered immediately.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.buffer = append(c.buffer, e)
	shouldFlush := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if shouldFlush {
		c.flush()
	}
}

// flush drains all buffered entries and writes them to the store. It logs
// errors rather than returning them so notification paths are never blocked
// on the audit log.
func (c *Collector) flush() {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.buffer
	c.buffer = make([]Entry, 0, c.batchSize)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.store.BatchInsert(ctx, batch); err != nil {
		slog.Error("failed to flush notification log", "count", len(batch), "error", err)
	}
}

// Stop signals the background goroutine to exit and performs a final flush.
func (c *Collector) Stop() {
	close(c.done)
}
