package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape: {success, data?, ...} on success,
// {success:false, error, details?} on failure.
type Envelope map[string]any

// RespondJSON writes a JSON response with the given status code. The payload
// is marshaled first so a failed encode never produces a partial body after
// headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondData writes {"success":true,"data":<data>}.
func RespondData(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, Envelope{"success": true, "data": data})
}

// RespondEnvelope writes a success envelope with extra top-level fields
// (summary, message, activity, notification).
func RespondEnvelope(w http.ResponseWriter, status int, fields Envelope) {
	env := Envelope{"success": true}
	for k, v := range fields {
		env[k] = v
	}
	RespondJSON(w, status, env)
}

// RespondError writes {"success":false,"error":<message>}.
func RespondError(w http.ResponseWriter, status int, message string) {
	writeErrorEnvelope(w, status, Envelope{"success": false, "error": message})
}

// RespondErrorDetails writes an error envelope with an explanatory details
// field, used for blocked state transitions.
func RespondErrorDetails(w http.ResponseWriter, status int, message, details string) {
	env := Envelope{"success": false, "error": message}
	if details != "" {
		env["details"] = details
	}
	writeErrorEnvelope(w, status, env)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
