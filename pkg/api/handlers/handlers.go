package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/cbodonnell/epochwars/pkg/log"
	"github.com/cbodonnell/epochwars/pkg/version"
)

// Locator is the session locator state exposed over HTTP.
type Locator interface {
	Assignments() map[string]uint64
}

type GameServer struct {
	Address  string `json:"address"`
	Assigned uint64 `json:"assigned"`
}

type StatusResponseBody struct {
	Version string `json:"version"`
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponseBody{Version: version.Get()})
}

func HandleListGameServers(locator Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments := locator.Assignments()
		servers := make([]GameServer, 0, len(assignments))
		for addr, assigned := range assignments {
			servers = append(servers, GameServer{Address: addr, Assigned: assigned})
		}
		sort.Slice(servers, func(i, j int) bool {
			return servers[i].Address < servers[j].Address
		})
		writeJSON(w, servers)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
