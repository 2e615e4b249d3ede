package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/authz"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type AuthzHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
}

type authzHandlerImpl struct {
	authzService authz.AuthzService
}

func NewAuthzHandler(authzService authz.AuthzService) AuthzHandler {
	return &authzHandlerImpl{authzService: authzService}
}

// Resolve answers whether the caller may open a client path. An anonymous
// caller gets a redirect_signin decision rather than a 401.
func (h *authzHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req authz.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	decision, err := h.authzService.Resolve(r.Context(), req)
	if err != nil {
		slog.Error("Resolve service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, decision)
}
