package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type wsFrame struct {
	Type    string         `json:"type"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
}

func TestDesignWS_TurnAndErrors(t *testing.T) {
	h := NewDesignHandler(localAgent())
	srv := httptest.NewServer(http.HandlerFunc(h.HandleTurnWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	var pong wsFrame
	require.NoError(t, conn.ReadJSON(&pong))
	require.Equal(t, "pong", pong.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "turn"}))
	var bad wsFrame
	require.NoError(t, conn.ReadJSON(&bad))
	require.Equal(t, "error", bad.Type)
	require.Equal(t, "invalid_argument", bad.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":              "turn",
		"instruction":       "dark mode",
		"currentMarkup":     "<main></main>",
		"currentStylesheet": lightCSS,
	}))
	var events []string
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		require.Equal(t, "event", f.Type)
		events = append(events, f.Event)
		if f.Event == "complete" {
			require.Contains(t, f.Data["updatedStylesheet"], "#0a0a0a")
			break
		}
	}
	require.Equal(t, []string{"status", "status", "change", "complete"}, events)
}
