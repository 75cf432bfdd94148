package hardware

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTimeout marks an operation that exhausted its bounded retry budget.
var ErrTimeout = errors.New("retry budget exhausted")

// TagReader identifies a physical card placed in the card port. ReadTag
// blocks until a tag is available. Failures are transient and retryable;
// callers bound the retries with Retry.
type TagReader interface {
	ReadTag(ctx context.Context) (string, error)
}

// Retry runs op up to attempts times, sleeping backoff between failures.
// It stops early when the context is cancelled. Once the budget is spent the
// returned error wraps ErrTimeout together with the last failure.
func Retry(ctx context.Context, attempts int, backoff time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%w: %d attempts, last error: %v", ErrTimeout, attempts, lastErr)
}

// StdinReader reads tag identifiers from an input stream, one per line.
// It stands in for the RFID reader when a human drives the game from a
// terminal.
type StdinReader struct {
	scanner *bufio.Scanner
	logger  *zap.Logger
}

// NewStdinReader creates a reader over in (typically os.Stdin).
func NewStdinReader(in io.Reader, logger *zap.Logger) *StdinReader {
	return &StdinReader{
		scanner: bufio.NewScanner(in),
		logger:  logger,
	}
}

// ReadTag blocks until a non-empty line arrives and returns it as the tag
// identifier.
func (r *StdinReader) ReadTag(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.logger.Info("hold a tag near the reader")
	for r.scanner.Scan() {
		tag := strings.TrimSpace(r.scanner.Text())
		if tag != "" {
			return tag, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("reading tag: %w", err)
	}
	return "", fmt.Errorf("reading tag: %w", io.EOF)
}

// SimReader simulates the RFID reader for headless runs and tests. It mints
// one set of tag identifiers per player, serves them once for registration,
// then replays the first tag of each player in alternating order forever —
// the sequence a two-player game consumes.
type SimReader struct {
	mu      sync.Mutex
	pending []string
	cycle   []string
	next    int
}

// NewSimReader creates a simulated reader for the given table shape.
func NewSimReader(players, tagsPerPlayer int) *SimReader {
	r := &SimReader{}
	for p := 0; p < players; p++ {
		for t := 0; t < tagsPerPlayer; t++ {
			tag := uuid.NewString()
			r.pending = append(r.pending, tag)
			if t == 0 {
				r.cycle = append(r.cycle, tag)
			}
		}
	}
	return r
}

// Tags returns the identifiers the reader replays during play, one per
// player in seat order.
func (r *SimReader) Tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.cycle))
	copy(out, r.cycle)
	return out
}

// ReadTag returns the next identifier in the simulated sequence.
func (r *SimReader) ReadTag(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) > 0 {
		tag := r.pending[0]
		r.pending = r.pending[1:]
		return tag, nil
	}
	tag := r.cycle[r.next%len(r.cycle)]
	r.next++
	return tag, nil
}
