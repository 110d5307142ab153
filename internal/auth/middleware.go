package auth

import (
	"context"
	"net/http"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const actorKey = "actor"

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token and stores the
// actor in the gin context.
func Middleware(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": ErrUnauthenticated.Error()})
			return
		}
		actor, err := a.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": err.Error()})
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

// SetActor attaches actor to the gin and request contexts.
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
	if c.Request != nil {
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
	}
}

// ActorFrom returns the actor stored by Middleware.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(domain.Actor)
	return actor, ok
}

// UnaryInterceptor authenticates gRPC calls from the "authorization"
// metadata entry.
func UnaryInterceptor(a *Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, ErrUnauthenticated.Error())
		}
		token, ok := BearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, ErrUnauthenticated.Error())
		}
		actor, err := a.Verify(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(WithActor(ctx, actor), req)
	}
}
