package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/hub"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
	"github.com/DoyleJ11/volleyball-arena/internal/types"
)

func TestToSessionMsg(t *testing.T) {
	cases := []struct {
		name    string
		in      types.ClientMessage
		want    session.Msg
		wantErr error
	}{
		{"step", types.ClientMessage{Type: "Step", Steps: 5}, session.Step{N: 5}, nil},
		{"contact", types.ClientMessage{Type: "Contact", Team: "red"}, session.Contact{Team: arena.TeamRed}, nil},
		{"trigger", types.ClientMessage{Type: "Trigger", Event: "HitBlueGoal"}, session.Trigger{Event: arena.HitBlueGoal}, nil},
		{"reset", types.ClientMessage{Type: "Reset"}, session.Reset{}, nil},
		{"bad team", types.ClientMessage{Type: "Contact", Team: "green"}, nil, ErrBadTeam},
		{"default team is not a player", types.ClientMessage{Type: "Contact", Team: "default"}, nil, ErrBadTeam},
		{"bad event", types.ClientMessage{Type: "Trigger", Event: "HitNet"}, nil, ErrBadEvent},
		{"unknown", types.ClientMessage{Type: "LockPick"}, nil, ErrUnknownType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := toSessionMsg(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func readServerMessage(t *testing.T, ctx context.Context, c *websocket.Conn) types.ServerMessage {
	t.Helper()
	rctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, data, err := c.Read(rctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func writeClientMessage(t *testing.T, ctx context.Context, c *websocket.Conn, m types.ClientMessage) {
	t.Helper()
	payload, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, payload))
}

func TestHandler_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx, session.Options{Seed: 1})
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.CreateSession{Code: "WS0001", Config: arena.DefaultConfig(), Reply: reply}
	<-reply

	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=WS0001"
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	first := readServerMessage(t, ctx, c)
	assert.Equal(t, "StateSnapshot", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, "WS0001", first.State.Code)

	writeClientMessage(t, ctx, c, types.ClientMessage{Type: "Contact", Team: "blue"})
	next := readServerMessage(t, ctx, c)
	assert.Equal(t, 1, next.Version)
	assert.Equal(t, arena.TeamBlue, next.State.State.LastHitter)

	writeClientMessage(t, ctx, c, types.ClientMessage{Type: "Contact", Team: "purple"})
	bad := readServerMessage(t, ctx, c)
	assert.Equal(t, "Error", bad.Type)
	assert.Contains(t, bad.Error, "unknown team")

	writeClientMessage(t, ctx, c, types.ClientMessage{Type: "Trigger", Event: "HitOutOfBounds"})
	end := readServerMessage(t, ctx, c)
	require.NotNil(t, end.State.LastResult)
	assert.Equal(t, arena.OutcomeOutOfBounds, end.State.LastResult.Outcome)
	assert.Equal(t, arena.LossPenalty, end.State.Blue.LastEpisode.Reward)
}

func TestHandler_Rejects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := hub.NewHub(ctx, session.Options{})
	handler := Handler(h, zap.NewNop())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/ws?code=MISSING", nil))
	assert.Equal(t, 404, rec.Code)
}
