package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/usecase"
)

// errorPayload is the canonical error body for the JSON API.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto the HTTP taxonomy: no active
// endpoint is 404, provider payload problems are 502, missing configuration
// is 500, bad input is 400.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "invalid request", Details: err.Error()})
	case errors.Is(err, domain.ErrNoActiveEndpoint), errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Code: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrUnparsablePayload), errors.Is(err, domain.ErrTransportFailed):
		writeJSON(w, http.StatusBadGateway, errorPayload{Code: "provider_error", Message: "provider exchange failed", Details: err.Error()})
	case errors.Is(err, domain.ErrNoHeaders), errors.Is(err, domain.ErrNoQueryParams):
		writeJSON(w, http.StatusInternalServerError, errorPayload{Code: "configuration_error", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorPayload{Code: "internal_error", Message: "internal error"})
	}
}

func banksHandler(bankUC usecase.BankUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
		if err != nil || code <= 0 {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "provider code must be a positive integer"})
			return
		}
		name := r.URL.Query().Get("name")

		banks, err := bankUC.Banks(ctx, code, name)
		if err != nil {
			writeError(w, err)
			return
		}

		response := struct {
			Data []model.Bank `json:"data"`
		}{Data: banks}
		writeJSON(w, http.StatusOK, response)
	}
}

func paymentsHandler(payUC usecase.PaymentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "invalid request body"})
			return
		}
		if req.ProviderCode <= 0 || req.MerchantSalesID == "" || req.Amount == "" {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "provider_code, merchant_sales_id and amount are required"})
			return
		}

		resp, err := payUC.Initiate(ctx, &req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func paymentStatusHandler(payUC usecase.PaymentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		q := r.URL.Query()
		code, err := strconv.ParseInt(q.Get("provider_code"), 10, 64)
		if err != nil || code <= 0 {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "provider_code must be a positive integer"})
			return
		}
		req := &model.StatusRequest{
			OperationID:  q.Get("operation_id"),
			ProviderCode: code,
			ProviderName: q.Get("provider_name"),
		}
		if req.OperationID == "" {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "operation_id is required"})
			return
		}

		resp, err := payUC.Status(ctx, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func merchantEventsHandler(payUC usecase.PaymentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var ev model.MerchantEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "invalid request body"})
			return
		}
		if ev.ProviderCode <= 0 || ev.EventType == "" {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_request", Message: "provider_code and event_type are required"})
			return
		}

		resp, err := payUC.NotifyMerchantEvent(ctx, &ev)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// webhookConfirmationHandler answers every call with HTTP 200 and a single
// CSV line; error handling lives entirely in the error-number field.
func webhookConfirmationHandler(whUC usecase.WebhookUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		_ = r.ParseForm()
		code, _ := strconv.ParseInt(r.FormValue("providerCode"), 10, 64)
		n := &model.WebhookNotification{
			ProviderCode:       code,
			RequestDateTime:    r.FormValue("requestDateTime"),
			MerchantSalesID:    r.FormValue("merchantSalesId"),
			ReferenceNo:        r.FormValue("referenceNo"),
			CreationDateTime:   r.FormValue("creationDateTime"),
			Amount:             r.FormValue("amount"),
			CurrencyID:         r.FormValue("currencyId"),
			PaymentReferenceNo: r.FormValue("paymentReferenceNo"),
			Status:             r.FormValue("status"),
			OrderNo:            r.FormValue("orderNo"),
			Signature:          r.FormValue("signature"),
			APIKey:             r.FormValue("apiKey"),
			CallerIP:           callerIP(r),
		}

		outcome := whUC.Confirm(ctx, n)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(outcome.CSV()))
	}
}

// callerIP prefers the first X-Forwarded-For hop, falling back to the
// socket peer.
func callerIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CacheRefresher triggers a reload of every configuration snapshot.
type CacheRefresher interface {
	RefreshAll(ctx context.Context)
}

func cachesRefreshHandler(worker CacheRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		worker.RefreshAll(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
	}
}
