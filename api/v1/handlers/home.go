package handlers

import (
	"net/http"

	"github.com/GHutch55/anagrams/version"
)

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	info := version.Info()
	response := map[string]interface{}{
		"name":    "Anagram API",
		"version": info.Version,
		"commit":  info.Commit,
		"routes": map[string]string{
			"health":          "/health",
			"version":         "/version",
			"generate":        "/generate-anagram",
			"generate_stream": "/ws/generate-anagram",
		},
	}
	SendJSON(w, response, http.StatusOK)
}

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, version.Info(), http.StatusOK)
}
