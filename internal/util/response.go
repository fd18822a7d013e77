// response.go — HTTP response utilities
package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JSONResponse writes a JSON response with the given status code and data
func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "[sitelens] Error encoding JSON response: %v\n", err)
	}
}

// JSONError writes {"error": msg} with the request ID echoed from the response headers.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, ErrorBody{Error: msg, RequestID: w.Header().Get("X-Request-ID")})
}
