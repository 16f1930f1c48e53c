package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shos/internal/domain"
)

// MaxBodyBytes caps the size of JSON request bodies
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes a JSON object request body into v.
// Numbers are kept as json.Number so handlers can apply integer coercion themselves.
// Malformed bodies are reported as domain.ErrInvalidInput.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return domain.NewInputError("body", "could not be read")
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return domain.NewInputError("body", "must be a JSON object")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return domain.NewInputError("body", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
		}
		return domain.NewInputError("body", "malformed JSON")
	}
	return nil
}

// ValidationMiddleware rejects write requests that do not declare a JSON body
func ValidationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if ct := r.Header.Get("Content-Type"); ct != "" && !isJSONContentType(ct) {
				RespondWithError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isJSONContentType(ct string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "application/json")
}
