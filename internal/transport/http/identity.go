package http

import (
	"net/http"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"
)

// actorFromRequest reads the caller identity set by the upstream auth layer.
// The core requires an explicit actor on every operation; requests without
// one are rejected before reaching a service.
func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	id := r.Header.Get(headerActorID)
	role := domain.Role(r.Header.Get(headerActorRole))
	if id == "" {
		return domain.Actor{}, false
	}
	switch role {
	case domain.RoleAdmin, domain.RoleProducer, domain.RoleBuyer:
	default:
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}

func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeError(w, http.StatusForbidden, codeForbidden, "missing or invalid actor identity")
	}
	return actor, ok
}
