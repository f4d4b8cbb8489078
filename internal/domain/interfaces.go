package domain

import "context"

// CaptureDevice is the boundary to the physical scanner's driver
// front-end. Capture blocks for the duration of the hardware pass.
type CaptureDevice interface {
	Capture(ctx context.Context, settings ScanSettings) ([]byte, error)
	Devices(ctx context.Context) (string, error)
	Available(ctx context.Context) bool
}

// PageStore holds captured pages pending a save-or-discard decision.
type PageStore interface {
	Put(page *ScanPage)
	Get(id string) (*ScanPage, error)
	RemoveMany(ids []string) int
	Clear()
	Len() int
}

// OutputAssembler produces one encoded artifact from ordered pages.
type OutputAssembler interface {
	Assemble(pages []*ScanPage, format OutputFormat) ([]byte, error)
	Extension(format OutputFormat) string
}

// SessionController is the scan session state machine exposed to the
// HTTP adapter surface. Capture, Save, and Discard are mutually
// exclusive; an overlapping call fails with ErrBusy.
type SessionController interface {
	Capture(ctx context.Context, settings ScanSettings) (*CaptureResult, error)
	Preview(pageID string) ([]byte, error)
	Pages() []PageInfo
	Save(ctx context.Context, settings SaveSettings) (*SaveResult, error)
	Discard() (int, error)
	ScannerAvailable(ctx context.Context) bool
	DeviceInfo(ctx context.Context) (string, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetScanBinary() string
	GetScanTimeout() int
	GetOutputPath() string
	GetFilenamePrefix() string
	GetMaxSessionPages() int
}
