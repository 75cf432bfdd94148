package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Display renders card information on the e-paper hardware. Show is
// fire-and-forget: the game loop logs failures but never blocks on them.
type Display interface {
	Show(ctx context.Context, text string) error
}

// LogDisplay writes card information to the log only. Used for headless runs
// where no display bridge is attached.
type LogDisplay struct {
	logger *zap.Logger
}

// NewLogDisplay creates a log-backed display sink.
func NewLogDisplay(logger *zap.Logger) *LogDisplay {
	return &LogDisplay{logger: logger}
}

// Show logs the payload.
func (d *LogDisplay) Show(_ context.Context, text string) error {
	d.logger.Info("display write", zap.String("text", text))
	return nil
}

// BridgeDisplay pushes card text to the e-paper bridge daemon over a
// websocket. The bridge forwards each payload to the display controller.
type BridgeDisplay struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
	logger       *zap.Logger
}

// DialBridge connects to the display bridge at url (ws:// or wss://).
func DialBridge(ctx context.Context, url string, writeTimeout time.Duration, logger *zap.Logger) (*BridgeDisplay, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing display bridge %s: %w", url, err)
	}
	logger.Info("connected to display bridge", zap.String("url", url))
	return &BridgeDisplay{
		conn:         conn,
		writeTimeout: writeTimeout,
		logger:       logger,
	}, nil
}

// Show sends one text payload to the bridge.
func (d *BridgeDisplay) Show(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	deadline := time.Now().Add(d.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := d.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting display write deadline: %w", err)
	}
	if err := d.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("writing to display bridge: %w", err)
	}
	return nil
}

// Close shuts down the bridge connection.
func (d *BridgeDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn.Close()
}
