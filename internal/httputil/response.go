package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the uniform response body returned by every endpoint,
// success and failure alike. Data is serialized as an explicit null when
// the operation carries no payload.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// RespondSuccess writes a success envelope with the given payload.
func RespondSuccess(w http.ResponseWriter, message string, data any, statusCode int) {
	writeEnvelope(w, Envelope{Success: true, Message: message, Data: data}, statusCode)
}

// RespondError writes a failure envelope. The message is the only detail
// exposed to callers; the cause is expected to have been logged already.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	writeEnvelope(w, Envelope{Success: false, Message: message, Data: nil}, statusCode)
}

func writeEnvelope(w http.ResponseWriter, env Envelope, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
