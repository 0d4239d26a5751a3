package binance

import (
	"context"
	"fmt"
	"log"
	"time"

	drepo "LiqWatch/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a LiquidationStream backed by the Binance futures
// forced-order WebSocket stream. The stream name is part of the URL, so
// no subscribe handshake is needed after dialing.
type Client struct {
	websocketURL string
	pingInterval time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new Binance LiquidationStream.
func New(websocketURL string, pingInterval time.Duration) drepo.LiquidationStream {
	return &Client{
		websocketURL: websocketURL,
		pingInterval: pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("binance: connected to %s", c.websocketURL)
	return nil
}

// Read streams raw frames and errors. The channels close when the
// connection is lost or the context is cancelled; the caller owns the
// reconnect schedule.
func (c *Client) Read(ctx context.Context) (<-chan []byte, <-chan error) {
	frames := make(chan []byte, 1024)
	errs := make(chan error, 1)

	// ping loop; the venue also pings us, which gorilla answers by default
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(frames)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				select {
				case frames <- b:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return frames, errs
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
