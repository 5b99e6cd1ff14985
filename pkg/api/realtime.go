package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// ChangeType is the kind of row change delivered by the realtime feed.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Phoenix channel events.
const (
	eventJoin            = "phx_join"
	eventReply           = "phx_reply"
	eventError           = "phx_error"
	eventClose           = "phx_close"
	eventHeartbeat       = "heartbeat"
	eventPostgresChanges = "postgres_changes"
	phoenixTopic         = "phoenix"
)

// Realtime defaults.
const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultReconnectMin      = time.Second
	DefaultReconnectMax      = 30 * time.Second
)

// ChangeEvent is one insert, update or delete on a subscribed table.
type ChangeEvent struct {
	Table     string          `json:"table"`
	Type      ChangeType      `json:"type"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// Decode unmarshals the new row (or the old row for deletes) into dest.
func (e ChangeEvent) Decode(dest interface{}) error {
	raw := e.Record
	if e.Type == ChangeDelete || len(raw) == 0 || string(raw) == "null" {
		raw = e.OldRecord
	}

	if len(raw) == 0 {
		return fmt.Errorf("change event on %s carries no record", e.Table)
	}

	return json.Unmarshal(raw, dest)
}

type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

// RealtimeOption configures a RealtimeClient.
type RealtimeOption func(*RealtimeClient)

// WithHeartbeatInterval overrides the 30s heartbeat.
func WithHeartbeatInterval(d time.Duration) RealtimeOption {
	return func(rc *RealtimeClient) {
		rc.heartbeat = d
	}
}

// WithReconnectBackoff sets the first and the largest reconnect delay.
func WithReconnectBackoff(minDelay, maxDelay time.Duration) RealtimeOption {
	return func(rc *RealtimeClient) {
		rc.reconnectMin = minDelay
		rc.reconnectMax = maxDelay
	}
}

// WithRealtimeLogger sets the logger. It defaults to the client's logger.
func WithRealtimeLogger(logger interfaces.Logger) RealtimeOption {
	return func(rc *RealtimeClient) {
		rc.logger = logger
	}
}

// RealtimeClient subscribes to row changes of the business over the
// realtime websocket and keeps the connection alive.
type RealtimeClient struct {
	client *Client
	tables []string
	logger interfaces.Logger
	dialer *websocket.Dialer

	heartbeat    time.Duration
	reconnectMin time.Duration
	reconnectMax time.Duration

	ref atomic.Uint64
}

// NewRealtimeClient creates a feed for tables using client for the token and business.
func NewRealtimeClient(client *Client, tables []string, opts ...RealtimeOption) *RealtimeClient {
	rc := &RealtimeClient{
		client:       client,
		tables:       tables,
		logger:       client.logger,
		dialer:       websocket.DefaultDialer,
		heartbeat:    DefaultHeartbeatInterval,
		reconnectMin: DefaultReconnectMin,
		reconnectMax: DefaultReconnectMax,
	}

	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// Run delivers change events to handler until ctx is done, reconnecting with
// exponential backoff. It returns early only when the session or business
// cannot be resolved. handler is called from Run's goroutine.
func (rc *RealtimeClient) Run(ctx context.Context, handler func(ChangeEvent)) error {
	delay := rc.reconnectMin

	for {
		connected, err := rc.runOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrNoBusiness) {
			return err
		}

		if connected {
			delay = rc.reconnectMin
		}

		rc.logger.Error("Realtime connection lost: %v (reconnecting in %v)", err, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay = min(delay*2, rc.reconnectMax)
	}
}

// socketURL maps the project URL to the websocket endpoint.
func (rc *RealtimeClient) socketURL() (string, error) {
	u, err := url.Parse(rc.client.baseURL + EndpointRealtime)
	if err != nil {
		return "", fmt.Errorf("invalid realtime URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}

	q := u.Query()
	q.Set("apikey", rc.client.anonKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (rc *RealtimeClient) runOnce(ctx context.Context, handler func(ChangeEvent)) (bool, error) {
	token, err := rc.client.AccessToken(ctx)
	if err != nil {
		return false, err
	}

	businessID, err := rc.client.BusinessID(ctx)
	if err != nil {
		return false, err
	}

	socketURL, err := rc.socketURL()
	if err != nil {
		return false, err
	}

	conn, _, err := rc.dialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to connect to realtime: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the connection unblocks the read loop below.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	var writeMu sync.Mutex
	send := func(msg phoenixMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	for _, table := range rc.tables {
		if err := send(rc.joinMessage(table, businessID, token)); err != nil {
			return false, fmt.Errorf("failed to join %s: %w", table, err)
		}
	}

	rc.logger.Debug("Realtime connected, subscribed to %s", strings.Join(rc.tables, ", "))

	go func() {
		ticker := time.NewTicker(rc.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				msg := phoenixMessage{Topic: phoenixTopic, Event: eventHeartbeat, Payload: json.RawMessage("{}"), Ref: rc.nextRef()}
				if err := send(msg); err != nil {
					rc.logger.Debug("Realtime heartbeat failed: %v", err)
					cancel()
					return
				}
			}
		}
	}()

	for {
		var msg phoenixMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			return true, fmt.Errorf("realtime read failed: %w", err)
		}

		if event, ok := rc.decode(msg); ok {
			handler(event)
		}
	}
}

func (rc *RealtimeClient) joinMessage(table, businessID, token string) phoenixMessage {
	payload := map[string]interface{}{
		"config": map[string]interface{}{
			"postgres_changes": []map[string]string{{
				"event":  "*",
				"schema": "public",
				"table":  table,
				"filter": "business_id=eq." + businessID,
			}},
		},
		"access_token": token,
	}

	raw, _ := json.Marshal(payload)

	return phoenixMessage{
		Topic:   TopicFor(table),
		Event:   eventJoin,
		Payload: raw,
		Ref:     rc.nextRef(),
	}
}

// decode turns a channel message into a ChangeEvent when it carries one.
func (rc *RealtimeClient) decode(msg phoenixMessage) (ChangeEvent, bool) {
	switch msg.Event {
	case eventPostgresChanges:
		var payload struct {
			Data ChangeEvent `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			rc.logger.Debug("Ignoring malformed change on %s: %v", msg.Topic, err)
			return ChangeEvent{}, false
		}

		return payload.Data, payload.Data.Table != ""

	case string(ChangeInsert), string(ChangeUpdate), string(ChangeDelete):
		var event ChangeEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			rc.logger.Debug("Ignoring malformed change on %s: %v", msg.Topic, err)
			return ChangeEvent{}, false
		}
		if event.Type == "" {
			event.Type = ChangeType(msg.Event)
		}
		if event.Table == "" {
			event.Table = strings.TrimPrefix(msg.Topic, topicPrefix)
		}

		return event, true

	case eventReply:
		var reply struct {
			Status   string          `json:"status"`
			Response json.RawMessage `json:"response"`
		}
		if err := json.Unmarshal(msg.Payload, &reply); err == nil && reply.Status != "ok" {
			rc.logger.Error("Realtime %s replied %s: %s", msg.Topic, reply.Status, string(reply.Response))
		}

	case eventError, eventClose:
		rc.logger.Debug("Realtime channel %s: %s", msg.Topic, msg.Event)
	}

	return ChangeEvent{}, false
}

func (rc *RealtimeClient) nextRef() *string {
	ref := strconv.FormatUint(rc.ref.Add(1), 10)
	return &ref
}

const topicPrefix = "realtime:public:"

// TopicFor returns the channel topic of table.
func TopicFor(table string) string {
	return topicPrefix + table
}
