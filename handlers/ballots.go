// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/casting"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type BallotHandler struct {
	engine *casting.Engine
}

func NewBallotHandler(engine *casting.Engine) *BallotHandler {
	return &BallotHandler{engine: engine}
}

// CastBallot handles POST /vote
func (h *BallotHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "A valid identity token is required")
		return
	}

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Only ServerError comes with an error, and the engine has already logged it
	receipt, _ := h.engine.CastBallot(r.Context(), id.VoterID, req.ElectionID, req.CandidateID)

	middleware.JSONResponse(w, statusForOutcome(receipt.Outcome), models.CastBallotResponse{
		Outcome:  receipt.Outcome.String(),
		BallotID: receipt.BallotID,
		Message:  receipt.Reason,
	})
}

func statusForOutcome(o casting.Outcome) int {
	switch o {
	case casting.Committed:
		return http.StatusCreated
	case casting.AlreadyVoted, casting.NotStarted, casting.Ended:
		return http.StatusConflict
	case casting.ElectionNotFound, casting.CandidateNotFound:
		return http.StatusNotFound
	case casting.InvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
