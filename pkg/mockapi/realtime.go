package mockapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

const topicPrefix = "realtime:public:"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *string         `json:"ref"`
}

type joinPayload struct {
	AccessToken string `json:"access_token"`
	Config      struct {
		PostgresChanges []struct {
			Table  string `json:"table"`
			Filter string `json:"filter"`
		} `json:"postgres_changes"`
	} `json:"config"`
}

// subscription is one joined channel on a socket.
type subscription struct {
	table      string
	businessID string
}

// HandleRealtime upgrades to a Phoenix socket that replies to joins and
// heartbeats and pushes postgres_changes for joined tables.
func HandleRealtime(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("mock-api: websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		changes, unsubscribe := state.Subscribe()
		defer unsubscribe()

		var (
			writeMu sync.Mutex
			subMu   sync.Mutex
			joined  = map[string]subscription{}
		)

		send := func(msg phoenixMessage) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return conn.WriteJSON(msg)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)

			for change := range changes {
				subMu.Lock()
				sub, ok := joined[topicPrefix+change.Table]
				subMu.Unlock()

				if !ok || !sub.matches(change) {
					continue
				}

				if err := send(changeMessage(change)); err != nil {
					return
				}
			}
		}()

		for {
			var msg phoenixMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}

			switch msg.Event {
			case "heartbeat":
				_ = send(reply(msg, "ok", "{}"))

			case "phx_join":
				sub, err := join(state, msg)
				if err != nil {
					_ = send(reply(msg, "error", `{"reason":"`+err.Error()+`"}`))
					continue
				}

				subMu.Lock()
				joined[msg.Topic] = sub
				subMu.Unlock()

				_ = send(reply(msg, "ok", "{}"))

			case "phx_leave":
				subMu.Lock()
				delete(joined, msg.Topic)
				subMu.Unlock()

				_ = send(reply(msg, "ok", "{}"))
			}
		}

		unsubscribe()
		<-done
	}
}

func join(state *State, msg phoenixMessage) (subscription, error) {
	var payload joinPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return subscription{}, err
	}

	acc, err := state.Authenticate(payload.AccessToken)
	if err != nil {
		return subscription{}, err
	}

	sub := subscription{
		table:      strings.TrimPrefix(msg.Topic, topicPrefix),
		businessID: acc.BusinessID,
	}
	for _, pc := range payload.Config.PostgresChanges {
		if pc.Table != "" {
			sub.table = pc.Table
		}
	}

	return sub, nil
}

func (s subscription) matches(c Change) bool {
	if c.Table != s.table {
		return false
	}

	row := c.Record
	if row == nil {
		row = c.OldRecord
	}

	return row["business_id"] == s.businessID
}

func reply(msg phoenixMessage, status, response string) phoenixMessage {
	payload, _ := json.Marshal(map[string]interface{}{
		"status":   status,
		"response": json.RawMessage(response),
	})

	return phoenixMessage{Topic: msg.Topic, Event: "phx_reply", Payload: payload, Ref: msg.Ref}
}

func changeMessage(c Change) phoenixMessage {
	data := map[string]interface{}{
		"table": c.Table,
		"type":  c.Type,
	}
	if c.Record != nil {
		data["record"] = c.Record
	}
	if c.OldRecord != nil {
		data["old_record"] = c.OldRecord
	}

	payload, _ := json.Marshal(map[string]interface{}{"data": data})

	return phoenixMessage{Topic: topicPrefix + c.Table, Event: "postgres_changes", Payload: payload}
}
