// Package net carries what every transport shares: the reply envelope and
// the request scoped values middlewares put on the context
package net

import (
	"context"
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "adwarden/internal/platform/errors"
)

// Envelope is the body of every API reply, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// ErrorEnvelope is err as a reply: the status its code maps to and the
// caller facing message
func ErrorEnvelope(err error, reqID string) (int, Envelope) {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}

// WriteJSON writes v with status as application/json
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WithRequest stores reqID where chi's RequestID middleware would
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID is the id chi assigned to the request, if any
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

type operatorKey struct{}

// WithOperator records the admin that passed auth
func WithOperator(ctx context.Context, operator string) context.Context {
	if operator == "" {
		return ctx
	}
	return context.WithValue(ctx, operatorKey{}, operator)
}

// Operator is the admin that passed auth, empty on open routes
func Operator(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey{}).(string)
	return op
}
