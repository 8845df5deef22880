// Package httputil holds the JSON response helpers shared by every handler.
package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	dErrors "lookalike/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// internalErrorBody is sent when a response value cannot be encoded.
var internalErrorBody = []byte(`{"error":"internal_error"}` + "\n")

// WriteJSON encodes v with the given status. The body is encoded before any
// header is written, so a value that cannot be encoded (a NaN float, say)
// becomes a 500 envelope instead of an empty success. It reports the
// encoding error so callers can log it.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// WriteError translates err into a status and envelope. Internal errors never
// leak their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		if de, ok := dErrors.As(err); ok {
			resp.ErrorDescription = de.Error()
		}
	}
	_ = WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}

// WriteBytes writes an opaque payload such as a PNG or a download.
func WriteBytes(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
