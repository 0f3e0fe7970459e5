package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"healthcare-portal/internal/delivery/http/middleware"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decodeBody reads a JSON body. An empty body is accepted when optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	response.BadRequest(w, "Invalid request body")
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func currentActor(w http.ResponseWriter, r *http.Request) (scheduling.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return actor, ok
}
