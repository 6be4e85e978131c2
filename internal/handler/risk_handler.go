package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mira/skylink/internal/model"
	"github.com/mira/skylink/internal/service"
)

// RiskHandler handles self-transfer risk checks.
type RiskHandler struct {
	risk *service.RiskService
}

// NewRiskHandler creates a handler wired to the risk scorer.
func NewRiskHandler(risk *service.RiskService) *RiskHandler {
	return &RiskHandler{risk: risk}
}

// riskLeg carries the flight facts the delay lookup needs.
type riskLeg struct {
	OriginCode      string    `json:"origin_code"`
	DestinationCode string    `json:"destination_code"`
	Airline         string    `json:"airline"`
	DepartureTime   time.Time `json:"departure_time"`
}

// SelfTransferCheckRequest is the body of POST /api/v1/self-transfer-check.
type SelfTransferCheckRequest struct {
	LayoverMinutes int      `json:"layover_minutes"`
	IsSelfTransfer bool     `json:"is_self_transfer"`
	FirstLeg       *riskLeg `json:"first_leg"`
	SecondLeg      *riskLeg `json:"second_leg"`
}

// CheckSelfTransfer handles POST /api/v1/self-transfer-check
//
// Scores the risk of missing a self-arranged transfer and maps it into a
// recommendation band. Connections without the self-transfer flag always
// come back safe: the flag is a fact about ticketing the caller owns.
func (h *RiskHandler) CheckSelfTransfer(w http.ResponseWriter, r *http.Request) {
	var req SelfTransferCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.LayoverMinutes < 0 {
		writeBadRequest(w, "layover_minutes must be non-negative")
		return
	}
	if req.IsSelfTransfer && req.FirstLeg == nil {
		writeBadRequest(w, "first_leg is required for a self-transfer check")
		return
	}

	candidate := model.ItineraryCandidate{
		Kind:           model.KindConnection,
		LayoverMinutes: req.LayoverMinutes,
		IsSelfTransfer: req.IsSelfTransfer,
	}
	if req.FirstLeg != nil {
		candidate.Flight1 = legToFlight(req.FirstLeg)
	}
	if req.SecondLeg != nil {
		candidate.Flight2 = legToFlight(req.SecondLeg)
	}

	assessment := h.risk.CheckSelfTransfer(r.Context(), &candidate)
	writeJSON(w, http.StatusOK, assessment)
}

func legToFlight(leg *riskLeg) *model.Flight {
	return &model.Flight{
		OriginCode:      leg.OriginCode,
		DestinationCode: leg.DestinationCode,
		Airline:         leg.Airline,
		DepartureTime:   leg.DepartureTime,
	}
}
