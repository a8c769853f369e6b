package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/delivery/http/request"
	"github.com/user/brand-ingest/internal/delivery/http/response"
	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
	"github.com/user/brand-ingest/internal/usecase"
)

const maxSaveBody = 1 << 20

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Services are the use cases served over HTTP.
type Services struct {
	IndexManager   usecase.IndexManager
	BrandScraper   usecase.BrandScraper
	BrandSaver     usecase.BrandSaver
	CatalogCreator usecase.CatalogCreator
	BrandRecords   usecase.BrandRecords
	ProductScraper usecase.ProductScraper
}

type Handler struct {
	svc    Services
	checks map[string]HealthCheck
	logger *zap.Logger
}

func NewHandler(svc Services, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		checks: checks,
		logger: logger,
	}
}

func (h *Handler) HandleSubmitIndex(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validURL(req.URL) {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.IndexManager.Submit(r.Context(), req.URL, req.ForceScrape)
	if err != nil {
		if errors.Is(err, usecase.ErrURLRecentlyScraped) {
			resp := response.SubmitIndexResponse{Status: "error", Message: err.Error()}
			if entry != nil {
				resp.IndexEntryID = entry.ID
			}
			h.writeJSON(w, http.StatusConflict, resp)
			return
		}
		h.logger.Error("failed to submit URL", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitIndexResponse{
		Status:       "success",
		Message:      "URL submitted for scraping",
		IndexEntryID: entry.ID,
	})
}

func (h *Handler) HandleGetIndexStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}
	if !validURL(rawURL) {
		h.writeJSONError(w, "Invalid URL format in query parameter", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.IndexManager.GetStatus(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("failed to get index status", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if entry.Status == entity.IndexStatusNotFound {
		h.writeJSONError(w, "Index entry not found for the given URL", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewIndexStatusResponse(entry))
}

func (h *Handler) HandleScrapeBrand(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validURL(req.URL) {
		h.writeJSONError(w, "A valid url is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.BrandScraper.Scrape(r.Context(), req.URL)
	if err != nil {
		h.writeFetchError(w, req.URL, err)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) HandleSaveBrand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSaveBody))
	if err != nil {
		h.writeJSONError(w, "Could not read request body", http.StatusBadRequest)
		return
	}
	req, err := usecase.ParseSaveRequest(body)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Forbidden keys are reported by the gate even when the ids are missing.
	if len(req.DisallowedFields()) == 0 && (req.SessionID == "" || req.SourceURL == "") {
		h.writeJSONError(w, "sessionId and sourceUrl are required", http.StatusBadRequest)
		return
	}

	res, err := h.svc.BrandSaver.Save(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to save brand", zap.String("session_id", req.SessionID), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := "rejected"
	if res.Saved() {
		status = "success"
	}
	h.writeJSON(w, saveStatusCode(res.State), response.SaveResponse{Status: status, SaveResult: res})
}

func (h *Handler) HandleCreateCatalog(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	res, err := h.svc.CatalogCreator.Create(r.Context(), recordID)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, usecase.ErrPayloadNotFound):
		h.writeJSONError(w, "No pending catalog payload for this record", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPayloadIncomplete):
		h.writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, repository.ErrCatalogServiceRejected):
		h.writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		h.logger.Error("failed to create catalog", zap.String("record_id", recordID), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	filter := entity.RecordFilter{
		Status:    r.URL.Query().Get("status"),
		SourceURL: r.URL.Query().Get("url"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	records, err := h.svc.BrandRecords.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list brands", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*entity.BrandRecord{}
	}
	h.writeJSON(w, http.StatusOK, response.BrandListResponse{Count: len(records), Records: records})
}

func (h *Handler) HandleScrapeProduct(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validURL(req.URL) {
		h.writeJSONError(w, "A valid url is required", http.StatusBadRequest)
		return
	}
	sess, err := h.svc.ProductScraper.Scrape(r.Context(), req.URL)
	if err != nil {
		h.writeFetchError(w, req.URL, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) HandleGetProductSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.svc.ProductScraper.Get(chi.URLParam(r, "id"))
	if !ok {
		h.writeJSONError(w, "Product session not found or expired", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	h.writeJSON(w, code, status)
}

func (h *Handler) writeFetchError(w http.ResponseWriter, pageURL string, err error) {
	switch {
	case errors.Is(err, repository.ErrFetchTimeout), errors.Is(err, context.DeadlineExceeded):
		h.writeJSONError(w, "Page load timed out", http.StatusGatewayTimeout)
	case errors.Is(err, repository.ErrContentRestricted):
		h.writeJSONError(w, "Page content is restricted", http.StatusUnprocessableEntity)
	case errors.Is(err, repository.ErrNavigationFailed):
		h.writeJSONError(w, "Page could not be loaded", http.StatusBadGateway)
	default:
		h.logger.Error("failed to scrape", zap.String("url", pageURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func saveStatusCode(state usecase.SaveState) int {
	switch state {
	case usecase.StateDeferredPayloadCaptured:
		return http.StatusCreated
	case usecase.StateDisallowedInput:
		return http.StatusBadRequest
	case usecase.StateSessionNotFound:
		return http.StatusNotFound
	case usecase.StateURLMismatch:
		return http.StatusConflict
	case usecase.StateValidationFailed, usecase.StateNonRetryableFieldsMissing:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
