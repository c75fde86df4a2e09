package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, healthResponse{Status: "ok"}, http.StatusOK)
}
