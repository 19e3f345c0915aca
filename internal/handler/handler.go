package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/Dan9191/cashflow-service/internal/utils/report"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type generateRequest struct {
	CurrentPeriod  string `json:"current_period"`
	PreviousPeriod string `json:"previous_period"`
	UseAI          *bool  `json:"use_ai"`
}

// Root describes the service
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Cash Flow Calculation Service",
		"status":  "running",
		"version": "1.0.0",
	})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GenerateCashFlow builds the cash flow statement of the caller's company
func (h *Handler) GenerateCashFlow(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	useAI := true
	if req.UseAI != nil {
		useAI = *req.UseAI
	}

	st, err := h.svc.GenerateStatement(r.Context(), service.GenerateRequest{
		CompanyID:      companyID,
		CurrentPeriod:  req.CurrentPeriod,
		PreviousPeriod: req.PreviousPeriod,
		UseAI:          useAI,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	if wantsXML(r) {
		body, err := report.RenderXML(st)
		if err != nil {
			h.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ClassifyAccounts lists the cash flow classification of every account
func (h *Handler) ClassifyAccounts(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	classifications, err := h.svc.ClassifyCompany(r.Context(), companyID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"total_accounts":  len(classifications),
		"classifications": classifications,
	})
}

// ListPeriods lists the trial balance periods available to the caller
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	periods, err := h.svc.ListPeriods(r.Context(), companyID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if periods == nil {
		periods = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"periods": periods})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingPeriods):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoTrialBalance), errors.Is(err, service.ErrNoChartOfAccounts):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func wantsXML(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "xml") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/xml")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
