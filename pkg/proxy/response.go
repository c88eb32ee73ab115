package proxy

import (
	"encoding/json"
	"net/http"

	"parallax-hq/explainer/pkg/proxy/types"
)

// WriteJSONResponse writes v as JSON with the given status code.
func WriteJSONResponse(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteErrorResponse writes an error body with the given status code.
func WriteErrorResponse(w http.ResponseWriter, status int, resp *types.ErrorResponse) error {
	return WriteJSONResponse(w, status, resp)
}

// WriteError maps err with HandleError and writes the result.
func WriteError(w http.ResponseWriter, err error) error {
	status, resp := HandleError(err)
	return WriteErrorResponse(w, status, resp)
}
