package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"qrmenu/internal/design"
)

const (
	designWSWriteWait = 10 * time.Second
	designWSPongWait  = 60 * time.Second
	designWSPingEvery = (designWSPongWait * 9) / 10
)

var designWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type designWSInbound struct {
	Type string `json:"type"`
	turnBody
}

type designWSOutbound struct {
	Type    string           `json:"type"`
	Event   design.EventName `json:"event,omitempty"`
	Data    any              `json:"data,omitempty"`
	Code    string           `json:"code,omitempty"`
	Message string           `json:"message,omitempty"`
}

// HandleTurnWS runs turns over a websocket. One connection is one design
// session, so a second turn sent while one is running is rejected.
func (h *DesignHandler) HandleTurnWS(w http.ResponseWriter, r *http.Request) {
	conn, err := designWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(designWSPongWait)); err != nil {
		log.Printf("design ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(designWSPongWait))
	})

	writeCh := make(chan designWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(designWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(designWSWriteWait)); err != nil {
					cancel()
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					cancel()
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(designWSWriteWait)); err != nil {
					cancel()
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	sess := h.agent.NewSession()
	em := design.EmitterFunc(func(ctx context.Context, ev design.Event) error {
		return pushDesignWS(ctx, writeCh, designWSOutbound{Type: "event", Event: ev.Name, Data: ev.Data})
	})

	for {
		var in designWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "pong"})
		case "turn":
			if err := in.validate(); err != nil {
				_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "error", Code: "invalid_argument", Message: err.Error()})
				continue
			}
			if sess.State() != design.StateIdle {
				_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "error", Code: "turn_in_progress", Message: design.ErrTurnInProgress.Error()})
				continue
			}
			req := in.request()
			go func() {
				err := sess.Run(ctx, req, em)
				if errors.Is(err, design.ErrTurnInProgress) {
					_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "error", Code: "turn_in_progress", Message: err.Error()})
				}
			}()
		case "":
			_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "error", Code: "invalid_argument", Message: "type is required"})
		default:
			_ = pushDesignWS(ctx, writeCh, designWSOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported type: " + in.Type})
		}
	}
}

// pushDesignWS blocks until the writer takes out. Turn events must not be
// dropped, so a slow client slows the turn instead.
func pushDesignWS(ctx context.Context, writeCh chan<- designWSOutbound, out designWSOutbound) error {
	select {
	case writeCh <- out:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
