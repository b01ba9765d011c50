// Package apiconnect wires the budgetly services to Connect handlers and clients.
package apiconnect

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetly/pkg/api"
)

func newUnaryHandler[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	options := append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	return connect.NewUnaryHandler(procedure, fn, options...)
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	options := append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, options...)
}
