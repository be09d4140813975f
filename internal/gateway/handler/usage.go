package handler

import (
	"net/http"

	"qrmenu/internal/llm"
)

type UsageHandler struct {
	gateway *llm.Gateway
}

func NewUsageHandler(gateway *llm.Gateway) *UsageHandler {
	return &UsageHandler{gateway: gateway}
}

type usageView struct {
	llm.Usage
	Backends []string `json:"backends"`
}

// HandleUsage reports the admission counters and the configured backends.
func (h *UsageHandler) HandleUsage(w http.ResponseWriter, _ *http.Request) {
	backends := h.gateway.Backends()
	if backends == nil {
		backends = []string{}
	}
	writeJSON(w, http.StatusOK, usageView{Usage: h.gateway.Guard().Snapshot(), Backends: backends})
}
