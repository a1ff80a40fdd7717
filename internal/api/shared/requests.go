package shared

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies read by DecodeJSON and ParseForm.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// ParseForm parses an urlencoded or multipart body with the same size cap.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if isMultipart(r) {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}

// ValidateRequest validates v with its struct tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// IsJSONRequest reports whether the request body is JSON.
func IsJSONRequest(r *http.Request) bool {
	return mediaType(r.Header.Get("Content-Type")) == "application/json"
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return IsJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isMultipart(r *http.Request) bool {
	return mediaType(r.Header.Get("Content-Type")) == "multipart/form-data"
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

// StatusFormValues extracts the status[<task id>] fields of a parsed form.
// Keys without an id are ignored; repeated keys keep the last value.
func StatusFormValues(r *http.Request) map[string]string {
	updates := make(map[string]string)
	for key, values := range r.Form {
		if !strings.HasPrefix(key, "status[") || !strings.HasSuffix(key, "]") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(key, "status["), "]")
		if id == "" || len(values) == 0 {
			continue
		}
		updates[id] = values[len(values)-1]
	}
	return updates
}
