package handler

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // the provider signs webhooks with HMAC-SHA1
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"domainflow/internal/tenant/models"
	dErrors "domainflow/pkg/domain-errors"
	"domainflow/pkg/platform/httputil"
	request "domainflow/pkg/platform/middleware/request"
)

// SignatureHeader carries the hex HMAC-SHA1 of the raw request body.
const SignatureHeader = "x-vercel-signature"

const maxWebhookBytes = 1 << 20

// HandleWebhook verifies the provider signature and feeds the event to the
// verification state machine. Events the platform does not act on still get
// 200 so the provider does not redeliver them.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unreadable body"))
		return
	}
	if !VerifySignature(h.webhookSecret, body, r.Header.Get(SignatureHeader)) {
		h.logger.WarnContext(ctx, "webhook signature rejected", "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid signature"))
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.WarnContext(ctx, "failed to decode webhook", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	outcome, err := h.service.HandleWebhook(ctx, models.DomainEvent{
		EventType:         payload.Type,
		Domain:            payload.Payload.Domain,
		ProviderProjectID: payload.Payload.ProjectID,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "failed to handle webhook", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, webhookResponse{Outcome: outcome})
}

// VerifySignature reports whether signature is the hex HMAC-SHA1 of body
// under secret. An empty secret never verifies.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(secret, body))
}

// Sign computes the raw HMAC-SHA1 of body.
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
