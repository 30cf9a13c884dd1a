/*
Package req provides helper functions for HTTP request parsing and data binding.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedMediaType indicates a Content-Type other than application/json.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidJSON indicates a request body that is not well-formed JSON
	// for the destination type.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrExtraContent indicates trailing content after the JSON document.
	ErrExtraContent = errors.New("extra content after JSON body")
)

// BindJSON decodes the JSON request body into dst. Unknown fields and
// trailing content are rejected.
func BindJSON(r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return ErrUnsupportedMediaType
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return ErrInvalidJSON
	}

	if decoder.More() {
		return ErrExtraContent
	}

	return nil
}
