package handlers

import (
	"log"
	"net/http"

	"github.com/zacharydestefano89/travel-route-planner/internal/api/dto"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
)

// CostsHandler accepts leg costs from the matrix provider side of the system.
type CostsHandler struct {
	Store ports.CostWriter
}

func (h *CostsHandler) Put(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPut)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PutCostsRequest
	if msg, ok := decodeBody(w, r, &req); !ok {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	legs := make([]domain.Leg, 0, len(req.Costs))
	for _, c := range req.Costs {
		legs = append(legs, domain.Leg{
			From: c.From,
			To:   c.To,
			Cost: domain.Cost{DurationSeconds: c.DurationSeconds, DistanceMeters: c.DistanceMeters},
		})
	}

	if err := h.Store.PutCosts(r.Context(), legs); err != nil {
		log.Printf("put costs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PutCostsResponse{Stored: len(legs)})
}
