package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/httpresp"
	"github.com/BruksfildServices01/healthconnect-api/internal/recommendation"
)

type RecommendationHandler struct {
	svc *recommendation.Service
}

func NewRecommendationHandler(svc *recommendation.Service) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

type RecommendationRequest struct {
	Symptoms       string `json:"symptoms" binding:"required"`
	MedicalHistory string `json:"medicalHistory"`
	SearchHistory  string `json:"searchHistory"`
}

func (r RecommendationRequest) input() recommendation.Input {
	return recommendation.Input{
		Symptoms:       r.Symptoms,
		MedicalHistory: r.MedicalHistory,
		SearchHistory:  r.SearchHistory,
	}
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.svc.Recommend(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *RecommendationHandler) Doctors(c *gin.Context) {
	var req RecommendationRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.svc.DoctorRecommendations(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *RecommendationHandler) LabTests(c *gin.Context) {
	var req RecommendationRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.svc.LabTestSuggestions(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}
