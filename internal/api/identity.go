package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jawago/server/internal/model"
)

// The auth layer in front of this core verifies the session and installs
// the caller's identity in these headers. The core trusts them as-is.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the verified caller attached to each player request.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// requireIdentity rejects player requests that carry no verified identity.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get(headerUserID))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed user identity")
			return
		}

		role := model.Role(r.Header.Get(headerUserRole))
		if !roleKnown(role) {
			role = model.RolePlayer
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func roleKnown(r model.Role) bool {
	return r == model.RolePlayer || r == model.RoleAdmin
}

// identityFrom returns the caller installed by requireIdentity.
func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
