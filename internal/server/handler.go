package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/internal/analysis/prediction"
	"github.com/Alias1177/KrishiMitra/internal/api/openweather"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	advisor *advisor.Service
}

func NewHandler(a *advisor.Service) *Handler {
	return &Handler{advisor: a}
}

type errorResponse struct {
	Error string `json:"error"`
}

type adviceResponse struct {
	Crop    models.Crop    `json:"crop"`
	Problem models.Problem `json:"problem"`
	Advice  string         `json:"advice"`
}

type marketResponse struct {
	Crop        models.Crop `json:"crop,omitempty"`
	DemandIndex int         `json:"demand_index"`
	models.MarketRecommendation
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/v1/prices/{crop}/prediction?year=2024
func (h *Handler) PredictPrice(w http.ResponseWriter, r *http.Request) {
	crop, err := advisory.ParseCrop(chi.URLParam(r, "crop"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	year := models.DefaultTargetYear
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "year must be an integer"})
			return
		}
	}

	result, err := h.advisor.PredictPrice(r.Context(), crop, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// GET /api/v1/weather/risk?city=Nagpur&country=IN
func (h *Handler) WeatherRisk(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "city is required"})
		return
	}

	report, err := h.advisor.WeatherRisk(r.Context(), city, r.URL.Query().Get("country"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// GET /api/v1/advice?crop=Rice&problem=Low%20Yield
func (h *Handler) ExpertAdvice(w http.ResponseWriter, r *http.Request) {
	crop, err := advisory.ParseCrop(r.URL.Query().Get("crop"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	problem, err := advisory.ParseProblem(r.URL.Query().Get("problem"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adviceResponse{
		Crop:    crop,
		Problem: problem,
		Advice:  h.advisor.ExpertAdvice(crop, problem),
	})
}

// GET /api/v1/market?crop=Rice&demand=5
func (h *Handler) MarketOutlook(w http.ResponseWriter, r *http.Request) {
	var crop models.Crop
	if raw := r.URL.Query().Get("crop"); raw != "" {
		c, err := advisory.ParseCrop(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		crop = c
	}

	demand, err := strconv.Atoi(r.URL.Query().Get("demand"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "demand must be an integer between 1 and 10"})
		return
	}

	rec, err := h.advisor.MarketOutlook(demand)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, marketResponse{Crop: crop, DemandIndex: demand, MarketRecommendation: rec})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, advisory.ErrInvalidInput),
		errors.Is(err, prediction.ErrInsufficientData),
		errors.Is(err, prediction.ErrDegenerateInput):
		return http.StatusBadRequest
	case errors.Is(err, openweather.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, openweather.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		msg = http.StatusText(status)
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
