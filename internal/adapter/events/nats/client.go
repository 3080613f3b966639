package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	natspkg "github.com/nats-io/nats.go"

	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
)

const (
	SubjectUserCreated = "users.created"
	SubjectUserUpdated = "users.updated"
	SubjectUserDeleted = "users.deleted"
)

var errNotConnected = errors.New("not connected")

// Envelope wraps every published payload.
type Envelope struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	OccurredAt string          `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type Client struct {
	nc    *natspkg.Conn
	now   func() time.Time
	newID func() string
}

func NewClient(url string) (*Client, error) {
	nc, err := natspkg.Connect(url, natspkg.Name("userstore"))
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, now: time.Now, newID: uuid.NewString}, nil
}

var _ port.Publisher = (*Client)(nil)

func (c *Client) Close() {
	c.nc.Close()
}

func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.Status() == natspkg.CONNECTED
}

// Check reports an error while the connection is down.
func (c *Client) Check(_ context.Context) error {
	if !c.IsConnected() {
		return errNotConnected
	}
	return nil
}

func (c *Client) PublishUserCreated(ctx context.Context, event domain.UserCreated) error {
	return c.publish(ctx, SubjectUserCreated, event)
}

func (c *Client) PublishUserUpdated(ctx context.Context, event domain.UserUpdated) error {
	return c.publish(ctx, SubjectUserUpdated, event)
}

func (c *Client) PublishUserDeleted(ctx context.Context, event domain.UserDeleted) error {
	return c.publish(ctx, SubjectUserDeleted, event)
}

func (c *Client) publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeEnvelope(c.newID(), subject, c.now(), payload)
	if err != nil {
		return err
	}
	if err := c.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

func encodeEnvelope(id, subject string, at time.Time, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", subject, err)
	}
	return json.Marshal(Envelope{
		EventID:    id,
		Type:       subject,
		OccurredAt: at.UTC().Format(time.RFC3339),
		Data:       data,
	})
}
