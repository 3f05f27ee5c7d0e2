// Package http writes every API reply in one envelope and adapts chi to the
// Router seam modules mount on
package http

import (
	stdhttp "net/http"

	pnet "adwarden/internal/platform/net"
	"adwarden/internal/platform/net/http/bind"
)

// Envelope is the body of every API reply
type Envelope = pnet.Envelope

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) { pnet.WriteJSON(w, status, v) }

// Response is what return-style handlers produce. A Body holding an error
// becomes an error envelope whose status comes from the error code
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK wraps data in a 200
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error maps err to its status and wire message
func Error(err error) Response { return Response{Body: err} }

// Result turns a handler's return pair into a Response. A Response value
// passes through untouched
func Result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// JSONHandler decodes and validates T before calling fn
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return Result(fn(r, in))
	})
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}

	reqID := pnet.RequestID(r.Context())
	if err, ok := resp.Body.(error); ok && err != nil {
		status, env := pnet.ErrorEnvelope(err, reqID)
		JSON(w, status, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  reqID,
		Data:       resp.Body,
	})
}
