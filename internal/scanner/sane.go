// Package scanner wraps the SANE scanimage front-end. It is the only
// place the process touches scanning hardware.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"batch-scanner/internal/domain"
)

// pageSizeArgs maps page sizes to scanimage scan-area arguments in mm.
var pageSizeArgs = map[domain.PageSize][]string{
	domain.PageSizeA4:     {"-x", "210", "-y", "297"},
	domain.PageSizeLetter: {"-x", "215.9", "-y", "279.4"},
	domain.PageSizeLegal:  {"-x", "215.9", "-y", "355.6"},
	domain.PageSizeA3:     {"-x", "297", "-y", "420"},
}

// SANEClient invokes scanimage and implements domain.CaptureDevice.
type SANEClient struct {
	binary  string
	timeout time.Duration
	logger  domain.Logger
}

// NewSANEClient creates a client for the given scanimage binary.
// A timeout of zero disables the per-call deadline.
func NewSANEClient(binary string, timeout time.Duration, logger domain.Logger) *SANEClient {
	if binary == "" {
		binary = "scanimage"
	}
	return &SANEClient{
		binary:  binary,
		timeout: timeout,
		logger:  logger,
	}
}

// Capture runs one hardware scan pass and returns the PNG bytes the
// front-end writes to stdout. The driver's stderr text becomes the
// failure reason.
func (c *SANEClient) Capture(ctx context.Context, settings domain.ScanSettings) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"--resolution", strconv.Itoa(settings.Resolution),
		"--format", "png",
	}
	args = append(args, pageSizeArgs[settings.PageSize]...)
	if settings.AutoTrim {
		args = append(args, "--swcrop=yes")
	}

	c.logger.Debug("Invoking scanner", "binary", c.binary, "resolution", settings.Resolution, "page_size", settings.PageSize)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		if ctx.Err() == context.DeadlineExceeded {
			reason = fmt.Sprintf("timed out after %s: %s", c.timeout, reason)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrCaptureFailed, reason)
	}

	data := stdout.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: scanner produced no image data", domain.ErrCaptureFailed)
	}
	return data, nil
}

// Devices returns the raw `scanimage -L` device listing.
func (c *SANEClient) Devices(ctx context.Context) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary, "-L")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to list scanners: %w", err)
	}
	return string(out), nil
}

// Available reports whether the probe found at least one device.
func (c *SANEClient) Available(ctx context.Context) bool {
	listing, err := c.Devices(ctx)
	if err != nil {
		c.logger.Warn("Scanner probe failed", "error", err)
		return false
	}
	return strings.Contains(listing, "device `")
}
