// Package service contains the scan session state machine and the
// output assembler.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"batch-scanner/internal/domain"
	apperrors "batch-scanner/pkg/errors"

	"github.com/google/uuid"
)

// SessionService orchestrates the single global scan session: it
// captures pages, holds their order, and assembles and persists the
// final artifact. Capture, Save, and Discard are serialized by opLock;
// a call that would overlap fails immediately with a busy error
// instead of queueing.
type SessionService struct {
	device    domain.CaptureDevice
	store     domain.PageStore
	assembler domain.OutputAssembler
	logger    domain.Logger
	maxPages  int

	// opLock is the busy flag: held for the full duration of a
	// capture, save, or discard, including the external call.
	opLock sync.Mutex

	// idsMu guards pageIDs so read-only operations (Pages) do not
	// block behind an in-flight capture or save.
	idsMu   sync.Mutex
	pageIDs []string

	// saveSeq is a process-lifetime counter; it never resets, so
	// filenames from saves within the same second stay distinct.
	saveSeq uint64
}

// NewSessionService creates the session controller. maxPages of zero
// means the session size is unbounded.
func NewSessionService(
	device domain.CaptureDevice,
	store domain.PageStore,
	assembler domain.OutputAssembler,
	logger domain.Logger,
	maxPages int,
) *SessionService {
	return &SessionService{
		device:    device,
		store:     store,
		assembler: assembler,
		logger:    logger,
		maxPages:  maxPages,
	}
}

// Capture runs one scan pass and appends the page to the session.
// On any failure the session is left exactly as it was.
func (s *SessionService) Capture(ctx context.Context, settings domain.ScanSettings) (*domain.CaptureResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid scan settings", err.Error()).WithCause(err)
	}

	if !s.opLock.TryLock() {
		return nil, apperrors.NewBusyError("a scan operation is already in progress", domain.ErrBusy)
	}
	defer s.opLock.Unlock()

	if s.maxPages > 0 && s.pageCount() >= s.maxPages {
		return nil, apperrors.NewValidationError("session page limit reached",
			fmt.Sprintf("session already holds %d pages", s.pageCount()))
	}

	data, err := s.device.Capture(ctx, settings)
	if err != nil {
		s.logger.Error("Capture failed", err, "resolution", settings.Resolution, "page_size", settings.PageSize)
		return nil, apperrors.NewDeviceError("capture failed", err)
	}

	page := &domain.ScanPage{
		ID:         uuid.NewString(),
		Data:       data,
		CapturedAt: time.Now(),
	}
	s.store.Put(page)
	s.appendID(page.ID)

	s.logger.Info("Page captured", "page_id", page.ID, "session_pages", s.pageCount(), "bytes", len(data))
	return &domain.CaptureResult{PageID: page.ID, CapturedAt: page.CapturedAt}, nil
}

// Preview returns the raw image bytes for one captured page.
func (s *SessionService) Preview(pageID string) ([]byte, error) {
	page, err := s.store.Get(pageID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("preview not found", err)
	}
	return page.Data, nil
}

// Pages lists the current session in capture order.
func (s *SessionService) Pages() []domain.PageInfo {
	ids := s.snapshotIDs()
	infos := make([]domain.PageInfo, 0, len(ids))
	for _, id := range ids {
		page, err := s.store.Get(id)
		if err != nil {
			continue
		}
		infos = append(infos, domain.PageInfo{ID: page.ID, CapturedAt: page.CapturedAt})
	}
	return infos
}

// Save assembles the session's pages into one artifact, writes it under
// the output directory, and clears the session. Any failure before the
// file is written leaves every page in place so the caller can retry or
// discard; once the write succeeds, eviction is unconditional.
func (s *SessionService) Save(ctx context.Context, settings domain.SaveSettings) (*domain.SaveResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid save settings", err.Error()).WithCause(err)
	}

	if !s.opLock.TryLock() {
		return nil, apperrors.NewBusyError("a scan operation is already in progress", domain.ErrBusy)
	}
	defer s.opLock.Unlock()

	ids := s.snapshotIDs()
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("session has no pages").WithCause(domain.ErrNoPages)
	}

	pages := make([]*domain.ScanPage, 0, len(ids))
	for _, id := range ids {
		page, err := s.store.Get(id)
		if err != nil {
			// Must not happen under the single-session invariant; a bug, not user error.
			s.logger.Error("Session inconsistency: ordered id missing from store", domain.ErrSessionInconsistent, "page_id", id)
			return nil, apperrors.NewInternalError("session state is inconsistent", domain.ErrSessionInconsistent)
		}
		pages = append(pages, page)
	}

	artifact, err := s.assembler.Assemble(pages, settings.Format)
	if err != nil {
		if errors.Is(err, domain.ErrTooManyPages) {
			return nil, apperrors.NewValidationError("format supports a single page only",
				fmt.Sprintf("session has %d pages", len(pages))).WithCause(err)
		}
		s.logger.Error("Assembly failed", err, "format", settings.Format, "pages", len(pages))
		return nil, apperrors.NewProcessingError("failed to assemble output", err)
	}

	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create output directory",
			fmt.Errorf("%w: %v", domain.ErrWriteFailed, err))
	}

	s.saveSeq++
	filename := fmt.Sprintf("%s_%s_%03d.%s",
		settings.FilenamePrefix,
		time.Now().Format("20060102_150405"),
		s.saveSeq,
		s.assembler.Extension(settings.Format))
	path := filepath.Join(settings.OutputDir, filename)

	if err := os.WriteFile(path, artifact, 0o644); err != nil {
		s.logger.Error("Write failed", err, "path", path)
		return nil, apperrors.NewInternalError("failed to write output file",
			fmt.Errorf("%w: %v", domain.ErrWriteFailed, err))
	}

	// The artifact is durable; eviction is all-or-nothing from here.
	s.store.RemoveMany(ids)
	s.clearIDs()

	s.logger.Info("Session saved", "filename", filename, "pages", len(pages), "format", settings.Format)
	return &domain.SaveResult{Filename: filename, SavedPath: path, Pages: len(pages)}, nil
}

// Discard drops every page in the session and returns how many were
// removed. Nothing external is called.
func (s *SessionService) Discard() (int, error) {
	if !s.opLock.TryLock() {
		return 0, apperrors.NewBusyError("a scan operation is already in progress", domain.ErrBusy)
	}
	defer s.opLock.Unlock()

	ids := s.snapshotIDs()
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("session has no pages").WithCause(domain.ErrNoPages)
	}

	removed := s.store.RemoveMany(ids)
	s.clearIDs()

	s.logger.Info("Session discarded", "pages", removed)
	return removed, nil
}

// ScannerAvailable probes the capture subsystem for a usable device.
func (s *SessionService) ScannerAvailable(ctx context.Context) bool {
	return s.device.Available(ctx)
}

// DeviceInfo returns the driver front-end's device listing.
func (s *SessionService) DeviceInfo(ctx context.Context) (string, error) {
	listing, err := s.device.Devices(ctx)
	if err != nil {
		return "", apperrors.NewDeviceError("failed to list scanners", err)
	}
	return listing, nil
}

func (s *SessionService) appendID(id string) {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()
	s.pageIDs = append(s.pageIDs, id)
}

func (s *SessionService) snapshotIDs() []string {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()
	ids := make([]string, len(s.pageIDs))
	copy(ids, s.pageIDs)
	return ids
}

func (s *SessionService) clearIDs() {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()
	s.pageIDs = nil
}

func (s *SessionService) pageCount() int {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()
	return len(s.pageIDs)
}
