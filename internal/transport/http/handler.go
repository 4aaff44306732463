// Package httptransport is the thin HTTP layer over the validator facade. It
// delegates to domain services without embedding business logic so transport
// concerns remain isolated.
package httptransport

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	allowlistmodels "tokengate/internal/allowlist/models"
	"tokengate/internal/eoa"
	"tokengate/internal/policy"
	jsonutil "tokengate/internal/transport/http/json"
	"tokengate/internal/validator"
	"tokengate/pkg/domain"
	dErrors "tokengate/pkg/domain-errors"
	httpErrors "tokengate/pkg/http-errors"
	"tokengate/pkg/platform/validation"
)

// Handler exposes the validator facade and the EOA registry.
type Handler struct {
	validator *validator.Service
	eoa       *eoa.Registry
	logger    *slog.Logger
}

func NewHandler(v *validator.Service, e *eoa.Registry, logger *slog.Logger) *Handler {
	return &Handler{validator: v, eoa: e, logger: logger}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := httpErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	}
	jsonutil.WriteJSON(w, status, errorResponse{Error: string(code), Message: err.Error()})
}

func parseKind(raw string) (allowlistmodels.Kind, error) {
	kind := allowlistmodels.Kind(raw)
	if !kind.Valid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown allowlist kind")
	}
	return kind, nil
}

func pathAddress(r *http.Request, param string) (domain.Address, error) {
	addr, err := domain.ParseAddress(chi.URLParam(r, param))
	if err != nil {
		return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid address in path")
	}
	return addr, nil
}

func pathListID(r *http.Request) (domain.AllowlistID, error) {
	id, err := domain.ParseAllowlistID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid allowlist id in path")
	}
	return id, nil
}

// --- allowlist registry ---

type createAllowlistRequest struct {
	Caller domain.Address `json:"caller"`
	Name   string         `json:"name"`
}

type allowlistResponse struct {
	ID      domain.AllowlistID `json:"id"`
	Kind    string             `json:"kind"`
	Name    string             `json:"name"`
	Owner   domain.Address     `json:"owner"`
	Members []domain.Address   `json:"members"`
}

func (h *Handler) handleCreateAllowlist(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createAllowlistRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	list, err := h.validator.Registry().Create(r.Context(), kind, req.Caller, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusCreated, allowlistResponse{
		ID:      list.ID,
		Kind:    list.Kind.String(),
		Name:    list.Name,
		Owner:   list.Owner,
		Members: []domain.Address{},
	})
}

func (h *Handler) handleGetAllowlist(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathListID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.validator.Registry().Get(r.Context(), kind, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	members := list.Members
	if members == nil {
		members = []domain.Address{}
	}
	jsonutil.WriteJSON(w, http.StatusOK, allowlistResponse{
		ID:      list.ID,
		Kind:    list.Kind.String(),
		Name:    list.Name,
		Owner:   list.Owner,
		Members: members,
	})
}

type memberRequest struct {
	Caller  domain.Address `json:"caller"`
	Account domain.Address `json:"account"`
}

func (h *Handler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	h.memberMutation(w, r, http.StatusCreated, h.validator.Registry().Add)
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	h.memberMutation(w, r, http.StatusOK, h.validator.Registry().Remove)
}

func (h *Handler) memberMutation(
	w http.ResponseWriter,
	r *http.Request,
	successStatus int,
	op func(ctx context.Context, kind allowlistmodels.Kind, id domain.AllowlistID, caller, account domain.Address) error,
) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathListID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req memberRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := op(r.Context(), kind, id, req.Caller, req.Account); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, successStatus, map[string]any{"account": req.Account})
}

func (h *Handler) handleIsMember(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathListID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := pathAddress(r, "account")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	member, err := h.validator.Registry().IsMember(r.Context(), kind, id, account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"account": account, "member": member})
}

type reassignRequest struct {
	Caller   domain.Address `json:"caller"`
	NewOwner domain.Address `json:"new_owner"`
}

func (h *Handler) handleReassignOwnership(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathListID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req reassignRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := h.validator.Registry().ReassignOwnership(r.Context(), kind, id, req.Caller, req.NewOwner); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"owner": req.NewOwner})
}

type renounceRequest struct {
	Caller domain.Address `json:"caller"`
}

func (h *Handler) handleRenounceOwnership(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathListID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req renounceRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := h.validator.Registry().RenounceOwnership(r.Context(), kind, id, req.Caller); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"owner": domain.ZeroAddress})
}

// --- collection policy ---

type setLevelRequest struct {
	Caller domain.Address `json:"caller"`
	Level  uint8          `json:"level"`
}

func (h *Handler) handleSetLevel(w http.ResponseWriter, r *http.Request) {
	collection, err := pathAddress(r, "collection")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req setLevelRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	level, err := policy.ParseLevel(req.Level)
	if err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid level"))
		return
	}
	if err := h.validator.SetTransferSecurityLevelOfCollection(r.Context(), req.Caller, collection, level); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"level": level.String()})
}

type bindAllowlistRequest struct {
	Caller domain.Address     `json:"caller"`
	ID     domain.AllowlistID `json:"id"`
}

func (h *Handler) handleBindOperatorWhitelist(w http.ResponseWriter, r *http.Request) {
	h.bindAllowlist(w, r, h.validator.SetOperatorWhitelistOfCollection)
}

func (h *Handler) handleBindPermittedReceivers(w http.ResponseWriter, r *http.Request) {
	h.bindAllowlist(w, r, h.validator.SetPermittedContractReceiverAllowlistOfCollection)
}

func (h *Handler) bindAllowlist(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller, collection domain.Address, id domain.AllowlistID) error,
) {
	collection, err := pathAddress(r, "collection")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req bindAllowlistRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := op(r.Context(), req.Caller, collection, req.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"id": req.ID})
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	collection, err := pathAddress(r, "collection")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pol, err := h.validator.GetCollectionSecurityPolicy(r.Context(), collection)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{
		"level":                           uint8(pol.Level),
		"operator_whitelist_id":           pol.OperatorWhitelistID,
		"permitted_contract_receivers_id": pol.PermittedContractReceiversID,
	})
}

// --- eoa registry ---

type verifyEOARequest struct {
	// Signature is the 65-byte [R || S || V] signature, 0x-hex encoded.
	Signature string `json:"signature"`
}

func (h *Handler) handleVerifyEOA(w http.ResponseWriter, r *http.Request) {
	var req verifyEOARequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	if err := validation.CheckStringLength("signature", req.Signature, validation.MaxSignatureHexLength); err != nil {
		h.writeError(w, r, err)
		return
	}
	raw := strings.TrimPrefix(req.Signature, "0x")
	sig, err := hex.DecodeString(raw)
	if err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "signature must be hex encoded"))
		return
	}
	signer, err := h.eoa.VerifySignature(r.Context(), sig)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"signer": signer, "verified": true})
}

func (h *Handler) handleIsVerifiedEOA(w http.ResponseWriter, r *http.Request) {
	account, err := pathAddress(r, "account")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{
		"account":  account,
		"verified": h.eoa.IsVerified(r.Context(), account),
	})
}

// --- transfer pre-check ---

type transferCheckRequest struct {
	Collection domain.Address `json:"collection"`
	Caller     domain.Address `json:"caller"`
	From       domain.Address `json:"from"`
	To         domain.Address `json:"to"`
}

func (h *Handler) handleTransferCheck(w http.ResponseWriter, r *http.Request) {
	var req transferCheckRequest
	if err := jsonutil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		return
	}
	allowed, err := h.validator.IsTransferAllowed(r.Context(), validator.TransferRequest{
		Collection: req.Collection,
		Caller:     req.Caller,
		From:       req.From,
		To:         req.To,
	})
	if allowed {
		jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"allowed": true})
		return
	}
	var dErr *dErrors.Error
	if err != nil && errors.As(err, &dErr) && httpErrors.ToHTTPStatus(dErr.Code) < http.StatusInternalServerError {
		// A denial is a successful evaluation with a negative answer.
		jsonutil.WriteJSON(w, http.StatusOK, map[string]any{
			"allowed": false,
			"reason":  string(dErr.Code),
		})
		return
	}
	h.writeError(w, r, err)
}
