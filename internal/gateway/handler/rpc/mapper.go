package rpc

import (
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	layoutrepo "qrmenu/internal/gateway/repository/layout"
	"qrmenu/internal/publish"
)

func stringField(s *structpb.Struct, key string) string {
	return strings.TrimSpace(s.GetFields()[key].GetStringValue())
}

func rawStringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func boolField(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func toStructLayout(l layoutrepo.Layout) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"layoutId":     l.ID,
		"restaurantId": l.RestaurantID,
		"markup":       l.Markup,
		"stylesheet":   l.Stylesheet,
		"version":      l.Version,
		"published":    l.Published,
		"createdAt":    l.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func toStructResult(r publish.Result, published bool) (*structpb.Struct, error) {
	m := map[string]any{
		"layoutId":  r.LayoutID,
		"version":   r.Version,
		"published": published,
	}
	if r.URL != "" {
		m["url"] = r.URL
	}
	return structpb.NewStruct(m)
}
