package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	artifactrepo "qrmenu/internal/gateway/repository/artifact"
	layoutrepo "qrmenu/internal/gateway/repository/layout"
	"qrmenu/internal/publish"
)

func newLayoutServer(t *testing.T) *httptest.Server {
	t.Helper()
	layouts := layoutrepo.NewMemoryStore()
	pub := publish.NewPublisher(layouts, artifactrepo.NewMemoryStore(), "https://menus.example")
	mux := http.NewServeMux()
	mux.Handle(NewLayoutServiceHandler(NewLayoutHandler(layouts, pub)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestLayoutService_SaveAndGetPublished(t *testing.T) {
	srv := newLayoutServer(t)
	ctx := context.Background()
	save := connect.NewClient[structpb.Struct, structpb.Struct](srv.Client(), srv.URL+SaveLayoutProcedure)
	get := connect.NewClient[structpb.Struct, structpb.Struct](srv.Client(), srv.URL+GetPublishedLayoutProcedure)

	_, err := get.CallUnary(ctx, connect.NewRequest(mustStruct(t, map[string]any{"restaurantId": "r1"})))
	require.Error(t, err)
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	res, err := save.CallUnary(ctx, connect.NewRequest(mustStruct(t, map[string]any{
		"restaurantId": "r1",
		"markup":       "<main><h1>Casa</h1></main>",
		"stylesheet":   "h1{color:red}",
		"published":    true,
	})))
	require.NoError(t, err)
	require.Equal(t, float64(1), res.Msg.GetFields()["version"].GetNumberValue())
	require.Equal(t, "https://menus.example/menu/r1", res.Msg.GetFields()["url"].GetStringValue())

	draft, err := save.CallUnary(ctx, connect.NewRequest(mustStruct(t, map[string]any{
		"restaurantId": "r1",
		"markup":       "<main>draft</main>",
	})))
	require.NoError(t, err)
	require.Equal(t, float64(2), draft.Msg.GetFields()["version"].GetNumberValue())
	require.False(t, draft.Msg.GetFields()["published"].GetBoolValue())

	pub, err := get.CallUnary(ctx, connect.NewRequest(mustStruct(t, map[string]any{"restaurantId": "r1"})))
	require.NoError(t, err)
	f := pub.Msg.GetFields()
	require.Equal(t, float64(1), f["version"].GetNumberValue())
	require.Equal(t, "<main><h1>Casa</h1></main>", f["markup"].GetStringValue())
	require.Equal(t, "h1{color:red}", f["stylesheet"].GetStringValue())
}

func TestLayoutService_Validation(t *testing.T) {
	srv := newLayoutServer(t)
	save := connect.NewClient[structpb.Struct, structpb.Struct](srv.Client(), srv.URL+SaveLayoutProcedure)

	_, err := save.CallUnary(context.Background(), connect.NewRequest(mustStruct(t, map[string]any{"markup": "<p>x</p>"})))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = save.CallUnary(context.Background(), connect.NewRequest(mustStruct(t, map[string]any{
		"restaurantId": "r1",
		"markup":       "<script>x</script>",
		"published":    true,
	})))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
