package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "villa/pkg/errors"
	httputil "villa/pkg/http"
	"villa/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// BearerToken returns the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type Middleware struct {
	verifier *Verifier
	log      *logger.Logger
}

func NewMiddleware(verifier *Verifier, log *logger.Logger) *Middleware {
	return &Middleware{verifier: verifier, log: log}
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func (m *Middleware) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, err := m.verifier.Verify(BearerToken(r))
		if err != nil {
			m.log.Debug("Rejected unauthenticated request", "path", r.URL.Path, "error", err)
			httputil.WriteError(w, apperrors.Unauthorized("Not authorized, invalid or missing token"))
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)), ps)
	}
}

// RequireAdmin authenticates and additionally requires the admin role.
func (m *Middleware) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, _ := FromContext(r.Context())
		if !identity.IsAdmin() {
			m.log.Warn("Non-admin caller on admin route", "path", r.URL.Path, "user_id", identity.UserID)
			httputil.WriteError(w, apperrors.Forbidden("Not authorized as an admin"))
			return
		}
		next(w, r, ps)
	})
}
