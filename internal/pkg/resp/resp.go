/*
Package resp provides helper functions for sending HTTP JSON responses.

This protocol has no response envelope: success bodies are the payloads
themselves, and the only structured failure body is the chat proxy's
{error, details, fallback} object.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"agrow/internal/pkg/logx"
)

// JSON marshals payload and writes it with the given status code.
func JSON(w http.ResponseWriter, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "error encoding JSON response", "http_status", httpStatus)
		http.Error(w, "error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(body)
}

// Raw writes an already-encoded JSON body unchanged. Used by the chat proxy
// to pass the upstream completion payload through without reshaping.
func Raw(w http.ResponseWriter, httpStatus int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpStatus)
	w.Write(body)
}

// BadRequest reports a malformed request body. The mock auth surface never
// rejects credentials, so this is the only client error the gateway emits.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// chatProxyError is the body of a failed chat proxy call. The fallback flag
// tells callers to synthesize a local reply instead of retrying.
type chatProxyError struct {
	Error    string `json:"error"`
	Details  string `json:"details"`
	Fallback bool   `json:"fallback"`
}

// ChatFallback reports a failed upstream chat call with HTTP 500 and the
// fallback flag set.
func ChatFallback(w http.ResponseWriter, cause error) {
	JSON(w, http.StatusInternalServerError, chatProxyError{
		Error:    "OpenAI API Error",
		Details:  cause.Error(),
		Fallback: true,
	})
}

// TooManyRequests reports that the per-IP rate limit was exceeded.
func TooManyRequests(w http.ResponseWriter) {
	JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
}
