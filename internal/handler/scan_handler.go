// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"batch-scanner/internal/domain"

	"github.com/gorilla/mux"
)

// ScanHandler handles scan-session HTTP requests
type ScanHandler struct {
	controller domain.SessionController
	config     domain.Config
	logger     domain.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(controller domain.SessionController, config domain.Config, logger domain.Logger) *ScanHandler {
	return &ScanHandler{
		controller: controller,
		config:     config,
		logger:     logger,
	}
}

type scanRequest struct {
	Resolution int    `json:"resolution"`
	PageSize   string `json:"page_size"`
	AutoTrim   bool   `json:"auto_trim"`
}

type saveRequest struct {
	Format         string `json:"format"`
	OutputFolder   string `json:"output_folder"`
	FilenamePrefix string `json:"filename_prefix"`
}

// decodeStrict decodes a JSON body rejecting unrecognized fields.
// An empty body is allowed and leaves the destination untouched.
func decodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Scan performs one capture and appends the page to the session
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	req := scanRequest{
		Resolution: 300,
		PageSize:   string(domain.PageSizeA4),
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pageSize, err := domain.ParsePageSize(req.PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := domain.ScanSettings{
		Resolution: req.Resolution,
		PageSize:   pageSize,
		AutoTrim:   req.AutoTrim,
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.controller.Capture(r.Context(), settings)
	if err != nil {
		h.logger.Error("Scan request failed", err, "resolution", settings.Resolution)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"scan_id":     result.PageID,
		"preview_url": "/api/v1/preview/" + result.PageID,
	})
}

// Preview serves the captured page image by ID
func (h *ScanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pageID := vars["id"]
	if pageID == "" {
		writeError(w, http.StatusBadRequest, "Page ID is required")
		return
	}

	data, err := h.controller.Preview(pageID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Session lists the pages captured so far, in capture order
func (h *ScanHandler) Session(w http.ResponseWriter, r *http.Request) {
	pages := h.controller.Pages()
	if pages == nil {
		pages = make([]domain.PageInfo, 0)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(pages),
		"pages": pages,
	})
}

// Save assembles and persists the session
func (h *ScanHandler) Save(w http.ResponseWriter, r *http.Request) {
	req := saveRequest{Format: string(domain.FormatJPEG)}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	format, err := domain.ParseOutputFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.OutputFolder) == "" {
		req.OutputFolder = h.config.GetOutputPath()
	}
	if strings.TrimSpace(req.FilenamePrefix) == "" {
		req.FilenamePrefix = h.config.GetFilenamePrefix()
	}

	settings := domain.SaveSettings{
		Format:         format,
		OutputDir:      req.OutputFolder,
		FilenamePrefix: req.FilenamePrefix,
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.controller.Save(r.Context(), settings)
	if err != nil {
		h.logger.Error("Save request failed", err, "format", settings.Format)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"saved_path": result.SavedPath,
		"filename":   result.Filename,
		"pages":      result.Pages,
	})
}

// Discard drops the session without saving
func (h *ScanHandler) Discard(w http.ResponseWriter, r *http.Request) {
	removed, err := h.controller.Discard()
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"deleted_count": removed,
	})
}

// ScannerInfo reports scanner availability and the device listing
func (h *ScanHandler) ScannerInfo(w http.ResponseWriter, r *http.Request) {
	available := h.controller.ScannerAvailable(r.Context())

	devices := ""
	if listing, err := h.controller.DeviceInfo(r.Context()); err == nil {
		devices = listing
	} else {
		h.logger.Warn("Scanner listing failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": available,
		"devices":   devices,
	})
}
