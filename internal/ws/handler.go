package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/hub"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
	"github.com/DoyleJ11/volleyball-arena/internal/types"
)

var (
	ErrUnknownType = errors.New("unknown type")
	ErrBadTeam     = errors.New("unknown team")
	ErrBadEvent    = errors.New("unknown event")
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "arena not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("arena", code), zap.String("client", clientID))

		s.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { s.Inbox() <- session.Leave{ClientID: clientID} }()
		clog.Debug("client joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						// the arena dropped us or shut down
						conn.Close(websocket.StatusGoingAway, "arena closed")
						return
					}
					msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
					payload, _ := json.Marshal(msg)
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, errors.New("bad json"))
				continue
			}

			msg, err := toSessionMsg(cm)
			if err != nil {
				writeError(r.Context(), conn, err)
				continue
			}

			s.Inbox() <- msg
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, err error) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: err.Error()})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func toSessionMsg(m types.ClientMessage) (session.Msg, error) {
	switch m.Type {
	case "Step":
		return session.Step{N: m.Steps}, nil
	case "Contact":
		team, ok := arena.ParseTeam(m.Team)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadTeam, m.Team)
		}
		return session.Contact{Team: team}, nil
	case "Trigger":
		ev, ok := arena.ParseEvent(m.Event)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadEvent, m.Event)
		}
		return session.Trigger{Event: ev}, nil
	case "Reset":
		return session.Reset{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
}
