package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"batch-scanner/internal/domain"
	apperrors "batch-scanner/pkg/errors"
)

// Mock implementations for testing

type MockController struct {
	captureResult    *domain.CaptureResult
	captureErr       error
	previewData      []byte
	previewErr       error
	pages            []domain.PageInfo
	saveResult       *domain.SaveResult
	saveErr          error
	discardCount     int
	discardErr       error
	available        bool
	devices          string
	devicesErr       error
	captureCalls     int
	lastScanSettings domain.ScanSettings
	lastSaveSettings domain.SaveSettings
}

func (m *MockController) Capture(ctx context.Context, settings domain.ScanSettings) (*domain.CaptureResult, error) {
	m.captureCalls++
	m.lastScanSettings = settings
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	return m.captureResult, nil
}

func (m *MockController) Preview(pageID string) ([]byte, error) {
	if m.previewErr != nil {
		return nil, m.previewErr
	}
	return m.previewData, nil
}

func (m *MockController) Pages() []domain.PageInfo {
	return m.pages
}

func (m *MockController) Save(ctx context.Context, settings domain.SaveSettings) (*domain.SaveResult, error) {
	m.lastSaveSettings = settings
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saveResult, nil
}

func (m *MockController) Discard() (int, error) {
	if m.discardErr != nil {
		return 0, m.discardErr
	}
	return m.discardCount, nil
}

func (m *MockController) ScannerAvailable(ctx context.Context) bool {
	return m.available
}

func (m *MockController) DeviceInfo(ctx context.Context) (string, error) {
	if m.devicesErr != nil {
		return "", m.devicesErr
	}
	return m.devices, nil
}

type MockConfig struct{}

func (MockConfig) GetServerPort() string     { return "8080" }
func (MockConfig) GetLogLevel() string       { return "info" }
func (MockConfig) GetScanBinary() string     { return "scanimage" }
func (MockConfig) GetScanTimeout() int       { return 60 }
func (MockConfig) GetOutputPath() string     { return "/tmp/default-scans" }
func (MockConfig) GetFilenamePrefix() string { return "scan" }
func (MockConfig) GetMaxSessionPages() int   { return 0 }

type MockLogger struct{}

func (MockLogger) Info(msg string, fields ...interface{})             {}
func (MockLogger) Error(msg string, err error, fields ...interface{}) {}
func (MockLogger) Debug(msg string, fields ...interface{})            {}
func (MockLogger) Warn(msg string, fields ...interface{})             {}

func newTestHandler(controller *MockController) *ScanHandler {
	return NewScanHandler(controller, MockConfig{}, MockLogger{})
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestScanHandler_Scan(t *testing.T) {
	controller := &MockController{
		captureResult: &domain.CaptureResult{PageID: "page-1", CapturedAt: time.Now()},
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/scan",
		strings.NewReader(`{"resolution": 600, "page_size": "Letter", "auto_trim": true}`))
	rr := httptest.NewRecorder()
	h.Scan(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["scan_id"] != "page-1" {
		t.Errorf("expected scan_id page-1, got %v", body["scan_id"])
	}
	if body["preview_url"] != "/api/v1/preview/page-1" {
		t.Errorf("unexpected preview_url: %v", body["preview_url"])
	}

	if controller.lastScanSettings.Resolution != 600 {
		t.Errorf("expected resolution 600, got %d", controller.lastScanSettings.Resolution)
	}
	if controller.lastScanSettings.PageSize != domain.PageSizeLetter {
		t.Errorf("expected Letter page size, got %s", controller.lastScanSettings.PageSize)
	}
	if !controller.lastScanSettings.AutoTrim {
		t.Error("expected auto_trim to be set")
	}
}

func TestScanHandler_ScanDefaults(t *testing.T) {
	controller := &MockController{
		captureResult: &domain.CaptureResult{PageID: "page-1"},
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/scan", strings.NewReader(""))
	rr := httptest.NewRecorder()
	h.Scan(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if controller.lastScanSettings.Resolution != 300 {
		t.Errorf("expected default resolution 300, got %d", controller.lastScanSettings.Resolution)
	}
	if controller.lastScanSettings.PageSize != domain.PageSizeA4 {
		t.Errorf("expected default page size A4, got %s", controller.lastScanSettings.PageSize)
	}
}

func TestScanHandler_ScanValidation(t *testing.T) {
	controller := &MockController{}
	h := newTestHandler(controller)

	cases := []string{
		`{"resolution": 50}`,
		`{"resolution": 300, "page_size": "Tabloid"}`,
		`{"resolution": 300, "dpi": 600}`, // unrecognized field
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/api/v1/scan", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.Scan(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for body %s, got %d", body, rr.Code)
		}
	}
	if controller.captureCalls != 0 {
		t.Errorf("expected controller untouched on validation failure, got %d calls", controller.captureCalls)
	}
}

func TestScanHandler_ScanBusy(t *testing.T) {
	controller := &MockController{
		captureErr: apperrors.NewBusyError("a scan operation is already in progress", domain.ErrBusy),
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/scan", strings.NewReader(`{"resolution": 300}`))
	rr := httptest.NewRecorder()
	h.Scan(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestScanHandler_ScanDeviceFailure(t *testing.T) {
	controller := &MockController{
		captureErr: apperrors.NewDeviceError("capture failed", domain.ErrCaptureFailed),
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/scan", strings.NewReader(`{"resolution": 300}`))
	rr := httptest.NewRecorder()
	h.Scan(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["success"] != false {
		t.Errorf("expected success false, got %v", body["success"])
	}
}

func TestScanHandler_Preview(t *testing.T) {
	controller := &MockController{previewData: []byte("png-bytes")}
	router := NewRouter(controller, MockConfig{}, MockLogger{})

	req := httptest.NewRequest("GET", "/api/v1/preview/page-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png content type, got %s", ct)
	}
	if rr.Body.String() != "png-bytes" {
		t.Errorf("unexpected preview body: %s", rr.Body.String())
	}
}

func TestScanHandler_PreviewNotFound(t *testing.T) {
	controller := &MockController{
		previewErr: apperrors.NewNotFoundError("preview not found", domain.ErrPageNotFound),
	}
	router := NewRouter(controller, MockConfig{}, MockLogger{})

	req := httptest.NewRequest("GET", "/api/v1/preview/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestScanHandler_Session(t *testing.T) {
	controller := &MockController{
		pages: []domain.PageInfo{
			{ID: "p1", CapturedAt: time.Now()},
			{ID: "p2", CapturedAt: time.Now()},
		},
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	rr := httptest.NewRecorder()
	h.Session(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["count"] != float64(2) {
		t.Errorf("expected count 2, got %v", body["count"])
	}
}

func TestScanHandler_SessionEmptyIsArray(t *testing.T) {
	h := newTestHandler(&MockController{})

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	rr := httptest.NewRecorder()
	h.Session(rr, req)

	if !strings.Contains(rr.Body.String(), `"pages":[]`) {
		t.Errorf("expected empty pages array, got %s", rr.Body.String())
	}
}

func TestScanHandler_Save(t *testing.T) {
	controller := &MockController{
		saveResult: &domain.SaveResult{
			Filename:  "scan_20250101_120000_001.pdf",
			SavedPath: "/tmp/scans/scan_20250101_120000_001.pdf",
			Pages:     3,
		},
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/save",
		strings.NewReader(`{"format": "pdf", "output_folder": "/tmp/scans", "filename_prefix": "scan"}`))
	rr := httptest.NewRecorder()
	h.Save(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["filename"] != "scan_20250101_120000_001.pdf" {
		t.Errorf("unexpected filename: %v", body["filename"])
	}
	if controller.lastSaveSettings.Format != domain.FormatPDF {
		t.Errorf("expected pdf format, got %s", controller.lastSaveSettings.Format)
	}
}

func TestScanHandler_SaveDefaultsFromConfig(t *testing.T) {
	controller := &MockController{saveResult: &domain.SaveResult{Filename: "f", SavedPath: "p", Pages: 1}}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/save", strings.NewReader(`{"format": "jpg"}`))
	rr := httptest.NewRecorder()
	h.Save(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if controller.lastSaveSettings.Format != domain.FormatJPEG {
		t.Errorf("expected jpg to normalize to jpeg, got %s", controller.lastSaveSettings.Format)
	}
	if controller.lastSaveSettings.OutputDir != "/tmp/default-scans" {
		t.Errorf("expected default output dir, got %s", controller.lastSaveSettings.OutputDir)
	}
	if controller.lastSaveSettings.FilenamePrefix != "scan" {
		t.Errorf("expected default prefix, got %s", controller.lastSaveSettings.FilenamePrefix)
	}
}

func TestScanHandler_SaveInvalidFormat(t *testing.T) {
	h := newTestHandler(&MockController{})

	req := httptest.NewRequest("POST", "/api/v1/save", strings.NewReader(`{"format": "bmp"}`))
	rr := httptest.NewRecorder()
	h.Save(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestScanHandler_SaveNoPages(t *testing.T) {
	controller := &MockController{
		saveErr: apperrors.NewValidationError("session has no pages").WithCause(domain.ErrNoPages),
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/save", strings.NewReader(`{"format": "pdf"}`))
	rr := httptest.NewRecorder()
	h.Save(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestScanHandler_Discard(t *testing.T) {
	controller := &MockController{discardCount: 3}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/discard", nil)
	rr := httptest.NewRecorder()
	h.Discard(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["deleted_count"] != float64(3) {
		t.Errorf("expected deleted_count 3, got %v", body["deleted_count"])
	}
}

func TestScanHandler_DiscardBusy(t *testing.T) {
	controller := &MockController{
		discardErr: apperrors.NewBusyError("a scan operation is already in progress", domain.ErrBusy),
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("POST", "/api/v1/discard", nil)
	rr := httptest.NewRecorder()
	h.Discard(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestScanHandler_ScannerInfo(t *testing.T) {
	controller := &MockController{
		available: true,
		devices:   "device `epson:libusb' is a flatbed scanner",
	}
	h := newTestHandler(controller)

	req := httptest.NewRequest("GET", "/api/v1/scanner_info", nil)
	rr := httptest.NewRecorder()
	h.ScannerInfo(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["available"] != true {
		t.Errorf("expected available true, got %v", body["available"])
	}
	if !strings.Contains(body["devices"].(string), "epson") {
		t.Errorf("unexpected devices listing: %v", body["devices"])
	}
}
