package server

import (
	"net/http"

	"qrmenu/internal/gateway/handler"
	"qrmenu/internal/gateway/handler/rpc"
	"qrmenu/internal/gateway/middleware"
)

type Handlers struct {
	Design   *handler.DesignHandler
	Sessions *handler.SessionHandler
	Menu     *handler.MenuHandler
	Usage    *handler.UsageHandler
	Layout   *rpc.LayoutHandler
}

func NewMux(h Handlers, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	mux.Handle(rpc.NewLayoutServiceHandler(h.Layout))

	// Design turns
	mux.HandleFunc("POST /api/design/turn", h.Design.HandleTurn)
	mux.HandleFunc("GET /api/design/ws", h.Design.HandleTurnWS)

	// Server-held editor sessions
	mux.HandleFunc("POST /api/sessions", h.Sessions.HandleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", h.Sessions.HandleGet)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.Sessions.HandleDelete)
	mux.HandleFunc("POST /api/sessions/{id}/turn", h.Sessions.HandleTurn)
	mux.HandleFunc("POST /api/sessions/{id}/undo", h.Sessions.HandleUndo)
	mux.HandleFunc("POST /api/sessions/{id}/redo", h.Sessions.HandleRedo)
	mux.HandleFunc("POST /api/sessions/{id}/publish", h.Sessions.HandlePublish)

	mux.HandleFunc("GET /api/usage", h.Usage.HandleUsage)
	mux.HandleFunc("GET /menu/{restaurantId}", h.Menu.HandlePage)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Middleware
	return middleware.CORS(allowedOrigins)(mux)
}
