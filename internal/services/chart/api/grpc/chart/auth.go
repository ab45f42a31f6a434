package chart

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/platform/requestctx"
)

// AuthorizationHeader is the metadata key carrying the bearer token.
const AuthorizationHeader = "authorization"

// Authenticator resolves a bearer token to its principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (requestctx.Principal, error)
}

// AuthInterceptor attaches the caller to the request context. Requests
// without a token pass through anonymously; requests with a bad token are
// rejected.
func AuthInterceptor(auth Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok || auth == nil {
			return handler(ctx, req)
		}
		values := md.Get(AuthorizationHeader)
		if len(values) == 0 {
			return handler(ctx, req)
		}
		token := bearerToken(values[0])
		if token == "" {
			return nil, apperrors.HandleError(apperrors.New(apperrors.CodeUnauthenticated, "malformed authorization header"), requestLocale(req))
		}
		principal, err := auth.Authenticate(ctx, token)
		if err != nil {
			return nil, apperrors.HandleError(err, requestLocale(req))
		}
		return handler(requestctx.WithPrincipal(ctx, principal), req)
	}
}

// WithToken returns a context that sends token on outgoing calls.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, AuthorizationHeader, "Bearer "+token)
}

func requestLocale(req any) string {
	in, ok := req.(*structpb.Struct)
	if !ok {
		return apperrors.DefaultLocale
	}
	return stringField(in, "locale")
}
