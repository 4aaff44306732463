package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	admin "tokengate/pkg/platform/middleware/admin"
	request "tokengate/pkg/platform/middleware/request"
)

// NewRouter wires all endpoints with middleware. Reads, the transfer
// pre-check, and EOA proof submission are open; registry and policy mutations
// sit behind the admin token.
func NewRouter(h *Handler, adminSigningKey string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Open surface.
	r.Get("/allowlists/{kind}/{id}", h.handleGetAllowlist)
	r.Get("/allowlists/{kind}/{id}/members/{account}", h.handleIsMember)
	r.Get("/collections/{collection}/policy", h.handleGetPolicy)
	r.Post("/eoa/verify", h.handleVerifyEOA)
	r.Get("/eoa/{account}", h.handleIsVerifiedEOA)
	r.Post("/transfers/check", h.handleTransferCheck)

	// Administrative surface.
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(adminSigningKey, logger))

		r.Post("/allowlists/{kind}", h.handleCreateAllowlist)
		r.Post("/allowlists/{kind}/{id}/members", h.handleAddMember)
		r.Delete("/allowlists/{kind}/{id}/members", h.handleRemoveMember)
		r.Post("/allowlists/{kind}/{id}/reassign", h.handleReassignOwnership)
		r.Post("/allowlists/{kind}/{id}/renounce", h.handleRenounceOwnership)

		r.Post("/collections/{collection}/level", h.handleSetLevel)
		r.Post("/collections/{collection}/operator-whitelist", h.handleBindOperatorWhitelist)
		r.Post("/collections/{collection}/permitted-receivers", h.handleBindPermittedReceivers)
	})

	return r
}
