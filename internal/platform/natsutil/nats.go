// Package natsutil delivers behandler notices over NATS JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
)

const (
	StreamName = "DIALOGMELDING"
	// dedupeWindow must outlive the publisher interval so a retried send is
	// dropped by the broker.
	dedupeWindow = 24 * time.Hour
)

type Client struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

func ConnectJetStream(url string, subject string) (*Client, error) {
	conn, err := nats.Connect(url, nats.Name("isdialogmote"))
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		_ = conn.Drain()
		conn.Close()
		return nil, err
	}
	if err := EnsureStream(js, subject); err != nil {
		_ = conn.Drain()
		conn.Close()
		return nil, err
	}
	return &Client{Conn: conn, JS: js}, nil
}

func ConnectJetStreamWithRetry(ctx context.Context, url, subject string, timeout time.Duration) (*Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ConnectJetStream(url, subject)
		if err == nil {
			return client, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("connect jetstream timeout after %s: %w", timeout, lastErr)
}

// EnsureStream creates the stream carrying subject when it does not exist.
func EnsureStream(js nats.JetStreamContext, subject string) error {
	_, err := js.StreamInfo(StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{strings.TrimSuffix(subject, ".>") + ".>"},
		Retention:  nats.LimitsPolicy,
		Storage:    nats.FileStorage,
		Replicas:   1,
		Duplicates: dedupeWindow,
	})
	return err
}

func (c *Client) Close() {
	if c == nil || c.Conn == nil {
		return
	}
	_ = c.Conn.Drain()
	c.Conn.Close()
}

var _ ports.BehandlerBus = (*BehandlerBus)(nil)

// BehandlerBus publishes one message per notice on
// <subject>.<varsel type>. The notice uuid is the JetStream message id.
type BehandlerBus struct {
	js      nats.JetStreamContext
	subject string
}

func NewBehandlerBus(js nats.JetStreamContext, subject string) *BehandlerBus {
	return &BehandlerBus{js: js, subject: strings.TrimSuffix(subject, ".>")}
}

type behandlerMessage struct {
	MeldingUUID    string                     `json:"meldingUuid"`
	DialogmoteUUID string                     `json:"dialogmoteUuid"`
	BehandlerRef   string                     `json:"behandlerRef"`
	PersonIdent    string                     `json:"personIdent"`
	Type           string                     `json:"type"`
	Tid            time.Time                  `json:"tid"`
	Sted           string                     `json:"sted"`
	Document       []models.DocumentComponent `json:"document"`
	Pdf            []byte                     `json:"pdf"`
}

func (b *BehandlerBus) Subject(msg ports.BehandlerMelding) string {
	return b.subject + "." + strings.ToLower(string(msg.Type))
}

func (b *BehandlerBus) Send(ctx context.Context, msg ports.BehandlerMelding) error {
	payload, err := json.Marshal(behandlerMessage{
		MeldingUUID:    msg.VarselUUID.String(),
		DialogmoteUUID: msg.MoteUUID.String(),
		BehandlerRef:   msg.BehandlerRef,
		PersonIdent:    msg.PersonIdent.String(),
		Type:           string(msg.Type),
		Tid:            msg.Tid,
		Sted:           msg.Sted,
		Document:       msg.Document,
		Pdf:            msg.Pdf,
	})
	if err != nil {
		return fmt.Errorf("encode behandler melding: %w", err)
	}
	if _, err := b.js.Publish(b.Subject(msg), payload, nats.MsgId(msg.VarselUUID.String()), nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish behandler melding: %w", err)
	}
	return nil
}
