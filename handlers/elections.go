// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/registry"
)

type ElectionHandler struct {
	registry *registry.Registry
}

func NewElectionHandler(reg *registry.Registry) *ElectionHandler {
	return &ElectionHandler{registry: reg}
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "A valid identity token is required")
		return
	}

	summaries, err := h.registry.ListElections(r.Context(), id.VoterID)
	if err != nil {
		writeRegistryError(w, err, "list elections")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "A valid identity token is required")
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	election, err := h.registry.CreateElection(r.Context(), req.Title, req.StartsAt, req.EndsAt, id.VoterID)
	if err != nil {
		writeRegistryError(w, err, "create election")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: election.ID,
	})
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	election, err := h.registry.GetElection(r.Context(), electionID)
	if err != nil {
		writeRegistryError(w, err, "get election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	if err := h.registry.DeleteElection(r.Context(), electionID); err != nil {
		writeRegistryError(w, err, "delete election")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCandidates handles GET /elections/{id}/candidates
func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	candidates, err := h.registry.ListCandidates(r.Context(), electionID)
	if err != nil {
		writeRegistryError(w, err, "list candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListCandidatesResponse{
		ElectionID: electionID,
		Candidates: candidates,
	})
}

// AddCandidates handles POST /elections/{id}/candidates
func (h *ElectionHandler) AddCandidates(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.AddCandidatesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidates, err := h.registry.AddCandidates(r.Context(), electionID, req.Candidates)
	if err != nil {
		writeRegistryError(w, err, "add candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidatesResponse{
		ElectionID: electionID,
		Candidates: candidates,
	})
}

// writeRegistryError maps sentinel errors to statuses; anything else is a 500
func writeRegistryError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
	case errors.Is(err, models.ErrInvalidRange):
		middleware.ErrorResponse(w, http.StatusBadRequest, "starts_at must be before ends_at")
	case errors.Is(err, models.ErrInvalidInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
