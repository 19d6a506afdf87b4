package handler

import (
	"net/http"

	"domainflow/pkg/platform/httputil"
	request "domainflow/pkg/platform/middleware/request"
)

// HandleRegisterDomain attaches a custom domain to the authenticated tenant
// and returns the DNS records to publish.
func (h *Handler) HandleRegisterDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[RegisterDomainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.RegisterDomain(ctx, tenantID, req.Domain)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to register domain", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	view, err := h.service.GetDomainStatus(ctx, tenantID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get domain status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRemoveDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	if err := h.service.RemoveDomain(ctx, tenantID); err != nil {
		h.writeServiceError(ctx, w, "failed to remove domain", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetInstructions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	instructions, err := h.service.GetInstructions(ctx, tenantID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get dns instructions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, instructionsResponse{Instructions: instructions})
}

// HandleVerify runs a verification check on demand, the same transition the
// scheduler and the webhook use.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	res, err := h.service.AdvanceVerification(ctx, tenantID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to verify domain", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(res))
}

func (h *Handler) HandleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, ok := h.tenantFromContext(ctx, w)
	if !ok {
		return
	}

	entries, err := h.service.ListActivity(ctx, tenantID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list domain activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, activityResponse{Activity: entries})
}
