package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// encodeFailure is sent when a response value cannot be marshalled. It is a
// literal so it cannot fail in turn.
const encodeFailure = `{"code":"INTERNAL_ERROR","message":"response encoding failed","retryable":false}` + "\n"

// RespondJSON marshals data completely before touching headers, so a value
// that cannot be encoded yields a 500 envelope instead of a truncated body.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("response encoding failed", "error", err, "type", fmt.Sprintf("%T", data))
		statusCode = http.StatusInternalServerError
		body = []byte(encodeFailure)
	} else {
		body = append(body, '\n')
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		slog.Debug("client went away before the response was written", "error", err)
	}
}
