package handler

import (
	"errors"
	"log"
	"net/http"

	"qrmenu/internal/briefing"
	layoutrepo "qrmenu/internal/gateway/repository/layout"
	"qrmenu/internal/publish"
)

// MenuHandler serves the public menu page a table QR code points at.
type MenuHandler struct {
	publisher *publish.Publisher
	menus     briefing.MenuSource
}

func NewMenuHandler(publisher *publish.Publisher, menus briefing.MenuSource) *MenuHandler {
	return &MenuHandler{publisher: publisher, menus: menus}
}

func (h *MenuHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	restaurantID := pathID(r, "restaurantId")
	if restaurantID == "" {
		http.Error(w, "restaurant id is required", http.StatusBadRequest)
		return
	}
	title := "Menu"
	if h.menus != nil {
		if rest, err := h.menus.GetRestaurant(r.Context(), restaurantID); err == nil && rest.Name != "" {
			title = rest.Name
		}
	}
	page, err := h.publisher.Page(r.Context(), restaurantID, title)
	if err != nil {
		if errors.Is(err, layoutrepo.ErrNotFound) {
			http.Error(w, "menu not published", http.StatusNotFound)
			return
		}
		log.Printf("menu page %s: %v", restaurantID, err)
		http.Error(w, "menu unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(page)
}
