package routes

import (
	"encoding/json"
	"net/http"
)

const onlineMessage = "Operator comercial bot este online"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// RootHandler is the plain-text liveness page shown by the original
// deployment.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(onlineMessage))
	}
}

func HealthHandler(serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{
			Status:  "ok",
			Service: serviceName,
		})
	}
}
