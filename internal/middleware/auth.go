package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/usecase"
)

const userKey = "auth_user"

// TokenVerifier checks a token's signature and expiry and returns the
// subject id.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// UserSource resolves a subject id to an identity. The password hash
// is never part of the result.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type gate struct {
	tokens  TokenVerifier
	users   UserSource
	trail   usecase.AuditTrail
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

// AuthGate guards a handler behind bearer-token authentication. Each
// request resolves to exactly one outcome: the identity is attached
// and the wrapped handler runs, or a single 401 response is written
// and nothing downstream executes.
func AuthGate(
	tokens TokenVerifier,
	users UserSource,
	trail usecase.AuditTrail,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &gate{
		tokens:  tokens,
		users:   users,
		trail:   trail,
		adapter: adapter,
		logger:  logger,
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user, rejection := g.resolve(ctx)
			if rejection != nil {
				g.reject(ctx, rejection)
				return
			}
			ctx.SetUserValue(userKey, user)
			next(ctx)
		}
	}
}

// UserFrom returns the identity the gate attached to the request, or
// nil when the handler runs outside the gate.
func UserFrom(ctx *fasthttp.RequestCtx) *domain.User {
	user, _ := ctx.UserValue(userKey).(*domain.User)
	return user
}

func (g *gate) resolve(ctx *fasthttp.RequestCtx) (*domain.User, *domain.Error) {
	tokenString, ok := bearerToken(ctx)
	if !ok {
		return nil, domain.ErrNoToken
	}

	subject, err := g.tokens.Verify(tokenString)
	if err != nil {
		g.logger.Warn("token rejected", zap.Error(err))
		return nil, domain.ErrUnauthorized
	}

	stdCtx, cancel := g.requestContext(ctx)
	defer cancel()

	user, err := g.users.GetByID(stdCtx, subject)
	if err != nil {
		// Covers an identity deleted after token issuance as well as
		// store failures; either way the request carries no identity.
		g.logger.Warn("token subject not resolvable", zap.String("subject", subject), zap.Error(err))
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (g *gate) reject(ctx *fasthttp.RequestCtx, rejection *domain.Error) {
	g.audit(ctx, rejection)

	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(rejection.Code), rejection.Message, nil))
	ctx.SetBody(body)
}

func (g *gate) audit(ctx *fasthttp.RequestCtx, rejection *domain.Error) {
	if g.trail == nil {
		return
	}
	event := domain.AuditEvent{
		Action: domain.AuditAuthRejected,
		Detail: rejection.Message,
	}
	if addr := ctx.RemoteAddr(); addr != nil {
		event.RemoteIP = addr.String()
	}
	if err := g.trail.Record(ctx, event); err != nil {
		g.logger.Warn("failed to record auth rejection", zap.Error(err))
	}
}

func (g *gate) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if g.adapter != nil {
		return g.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// bearerToken extracts the token from the Authorization header. A
// missing header or any scheme other than Bearer counts as no token.
func bearerToken(ctx *fasthttp.RequestCtx) (string, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
