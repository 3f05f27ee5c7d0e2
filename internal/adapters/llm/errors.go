package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	perr "adwarden/internal/platform/errors"
)

var (
	// ErrMalformedResponse means the model answered 2xx without a usable choice
	ErrMalformedResponse = perr.New(perr.ErrorCodeJSON, "AI 响应格式异常或为空")

	// ErrClassificationFailed is matched by every exhausted retry chain
	ErrClassificationFailed = perr.New(perr.ErrorCodeUnavailable, "classification failed")
)

// StatusError is a non-2xx answer from the model endpoint
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned %d: %s", e.Status, e.Body)
}

// FailedError carries the last attempt's error once retries are exhausted.
// errors.Is(err, ErrClassificationFailed) holds for it
type FailedError struct {
	Kind string
	Last error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("AI检测失败 (%s): %v", e.Kind, e.Last)
}

func (e *FailedError) Unwrap() []error { return []error{ErrClassificationFailed, e.Last} }

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// retryable: transport errors, timeouts, 5xx, 429 and 408 retry; other 4xx,
// malformed bodies and an empty key pool do not
func retryable(err error) bool {
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrNoValidKeys) {
		return false
	}
	switch s := statusOf(err); {
	case s == 0:
		return true
	case s >= 500, s == http.StatusTooManyRequests, s == http.StatusRequestTimeout:
		return true
	default:
		return s < 400
	}
}

// errorKind is the operator-facing label used in exhaustion messages
func errorKind(err error) string {
	s := statusOf(err)
	switch {
	case isTimeout(err) || s == http.StatusRequestTimeout:
		return "请求超时"
	case s == http.StatusServiceUnavailable:
		return "服务不可用"
	case s == http.StatusTooManyRequests:
		return "请求过多"
	case s >= 500:
		return "服务器错误"
	case s >= 400:
		return "客户端错误"
	default:
		return "网络错误"
	}
}
