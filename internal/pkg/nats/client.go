package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/angkut-id/dispatch/internal/pkg/logger"
)

// MessageHandler processes the raw body of a NATS message
type MessageHandler func(message []byte) error

// Client wraps a core NATS connection for publishing and subscribing
type Client struct {
	conn *nats.Conn
}

// NewClient connects to the NATS server
func NewClient(url string) (*Client, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	return &Client{conn: conn}, nil
}

// GetConn returns the underlying NATS connection
func (c *Client) GetConn() *nats.Conn {
	return c.conn
}

// Publish marshals the message to JSON and sends it to the subject
func (c *Client) Publish(subject string, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.conn.Publish(subject, msgBytes); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// QueueSubscribe subscribes to a subject in a queue group so only one
// instance of the service processes each message.
func (c *Client) QueueSubscribe(subject, queueGroup string, handler MessageHandler) (*nats.Subscription, error) {
	sub, err := c.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			logger.Error("failed to process message",
				logger.String("subject", subject),
				logger.ErrorField(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject: %w", err)
	}

	return sub, nil
}

// Close drains and closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
