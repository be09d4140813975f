package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"qrmenu/internal/design"
	layoutrepo "qrmenu/internal/gateway/repository/layout"
	"qrmenu/internal/publish"
)

const (
	LayoutServiceName = "qrmenu.v1.LayoutService"

	SaveLayoutProcedure         = "/" + LayoutServiceName + "/SaveLayout"
	GetPublishedLayoutProcedure = "/" + LayoutServiceName + "/GetPublishedLayout"
)

// LayoutHandler exposes layout persistence to the dashboard. Messages are
// google.protobuf.Struct so clients need no generated stubs.
type LayoutHandler struct {
	layouts   layoutrepo.Store
	publisher *publish.Publisher
}

func NewLayoutHandler(layouts layoutrepo.Store, publisher *publish.Publisher) *LayoutHandler {
	return &LayoutHandler{layouts: layouts, publisher: publisher}
}

// NewLayoutServiceHandler mounts both procedures under one path prefix.
func NewLayoutServiceHandler(h *LayoutHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	save := connect.NewUnaryHandler(SaveLayoutProcedure, h.SaveLayout, opts...)
	get := connect.NewUnaryHandler(GetPublishedLayoutProcedure, h.GetPublishedLayout, opts...)
	return "/" + LayoutServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SaveLayoutProcedure:
			save.ServeHTTP(w, r)
		case GetPublishedLayoutProcedure:
			get.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SaveLayout stores {restaurantId, markup, stylesheet} as a new version.
// With published=true the version also becomes the public page.
func (h *LayoutHandler) SaveLayout(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	restaurantID := stringField(req.Msg, "restaurantId")
	if restaurantID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("restaurantId is required"))
	}
	doc := design.Document{
		Markup:     rawStringField(req.Msg, "markup"),
		Stylesheet: rawStringField(req.Msg, "stylesheet"),
	}
	published := boolField(req.Msg, "published")

	var (
		res publish.Result
		err error
	)
	if published {
		res, err = h.publisher.Publish(ctx, restaurantID, stringField(req.Msg, "title"), doc)
	} else {
		res, err = h.publisher.SaveDraft(ctx, restaurantID, doc)
	}
	if err != nil {
		return nil, toLayoutError(err)
	}
	out, err := toStructResult(res, published)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func (h *LayoutHandler) GetPublishedLayout(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	restaurantID := stringField(req.Msg, "restaurantId")
	if restaurantID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("restaurantId is required"))
	}
	l, err := h.layouts.GetPublished(ctx, restaurantID)
	if err != nil {
		return nil, toLayoutError(err)
	}
	out, err := toStructLayout(l)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func toLayoutError(err error) error {
	switch {
	case errors.Is(err, layoutrepo.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, publish.ErrEmptyDocument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, layoutrepo.ErrVersionConflict):
		return connect.NewError(connect.CodeAborted, err)
	}
	return connect.NewError(connect.CodeInternal, fmt.Errorf("layout service failed: %w", err))
}
