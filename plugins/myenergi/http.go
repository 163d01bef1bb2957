package myenergi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joshp123/gridgate/internal/fault"
	"github.com/joshp123/gridgate/internal/server"
)

const statusEndpoint = "/api/myenergi/status"

func (p Plugin) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc(statusEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if p.client == nil {
			server.WriteError(w, fault.New(vendor, "config", fault.ConfigurationMissing, errors.New("credentials not configured")))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		snapshot, err := p.client.Status(ctx)
		if err != nil {
			log.Printf("myenergi status: %v", err)
			server.WriteError(w, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, snapshot)
	})
}
