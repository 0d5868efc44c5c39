package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/finsightlab/finsight/internal/models"
)

// AnalyzeRequest is the request body for POST /api/analyze.
type AnalyzeRequest struct {
	Portfolio string `json:"portfolio"`
	UserID    string `json:"user_id,omitempty"`
}

// AnalyzeResponse wraps a completed analysis. ID is set only when the
// analysis was persisted for a user.
type AnalyzeResponse struct {
	ID       string                    `json:"id,omitempty"`
	Analysis *models.PortfolioAnalysis `json:"analysis"`
}

// handleAnalyze handles POST /api/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	analysis, err := s.app.AnalysisService.Analyze(r.Context(), req.Portfolio)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMalformedInput):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, "Portfolio text could not be parsed", "malformed_input")
		case errors.Is(err, models.ErrEmptyPortfolio):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, "No holdings could be priced", "empty_portfolio")
		default:
			s.logger.Error().Err(err).Msg("Analysis failed")
			WriteError(w, http.StatusInternalServerError, "Analysis failed")
		}
		return
	}

	resp := AnalyzeResponse{Analysis: analysis}
	if req.UserID != "" {
		id, err := s.app.AnalysisStore.SaveAnalysis(r.Context(), req.UserID, analysis)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to persist analysis")
			WriteError(w, http.StatusInternalServerError, "Failed to persist analysis")
			return
		}
		resp.ID = id
	}

	WriteJSON(w, http.StatusOK, resp)
}

// ScenarioRequest is the request body for POST /api/scenario.
type ScenarioRequest struct {
	AnalysisID string `json:"analysis_id"`
	Scenario   string `json:"scenario"`
}

// ScenarioResponse carries the generated what-if narrative.
type ScenarioResponse struct {
	AnalysisID string `json:"analysis_id"`
	Scenario   string `json:"scenario"`
	Narrative  string `json:"narrative"`
}

// handleScenario handles POST /api/scenario.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.NarrativeClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "Scenario analysis is not configured")
		return
	}

	var req ScenarioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.AnalysisID == "" {
		WriteError(w, http.StatusBadRequest, "analysis_id is required")
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		WriteError(w, http.StatusBadRequest, "scenario is required")
		return
	}

	record, err := s.app.AnalysisStore.GetAnalysis(r.Context(), req.AnalysisID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	narrative, err := s.app.NarrativeClient.AnalyzeScenario(r.Context(), &record.Analysis, req.Scenario)
	if err != nil {
		s.logger.Error().Err(err).Str("analysis_id", req.AnalysisID).Msg("Scenario generation failed")
		WriteError(w, http.StatusBadGateway, "Scenario generation failed")
		return
	}

	WriteJSON(w, http.StatusOK, ScenarioResponse{
		AnalysisID: req.AnalysisID,
		Scenario:   req.Scenario,
		Narrative:  narrative,
	})
}

// handleAnalysisByID handles GET /api/analyses/{id}.
func (s *Server) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathParam(r, "/api/analyses/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Analysis id is required")
		return
	}

	record, err := s.app.AnalysisStore.GetAnalysis(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// handleAnalysisList handles GET /api/analyses?user_id=.
func (s *Server) handleAnalysisList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	records, err := s.app.AnalysisStore.ListAnalyses(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list analyses")
		WriteError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  userID,
		"analyses": records,
	})
}
