package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"batch-scanner/internal/domain"

	"github.com/signintech/gopdf"
	"golang.org/x/image/tiff"
)

const jpegQuality = 90

// Assembler turns an ordered page set into one encoded artifact.
// It only encodes what it receives: page size and trim were applied
// at capture time and pages are never re-cropped or re-scaled here.
type Assembler struct {
	logger domain.Logger
}

// NewAssembler creates a new output assembler.
func NewAssembler(logger domain.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble encodes the pages as the requested format. Single-image
// formats require exactly one page; PDF accepts one or more, each
// becoming one document page in the given order.
func (a *Assembler) Assemble(pages []*domain.ScanPage, format domain.OutputFormat) ([]byte, error) {
	if len(pages) == 0 {
		return nil, domain.ErrNoPages
	}

	if format.MultiPage() {
		return a.assemblePDF(pages)
	}

	if len(pages) > 1 {
		return nil, fmt.Errorf("%w: %s holds one page but session has %d", domain.ErrTooManyPages, format, len(pages))
	}
	return a.encodeImage(pages[0].Data, format)
}

// Extension returns the filename extension for a format.
func (a *Assembler) Extension(format domain.OutputFormat) string {
	return string(format)
}

// encodeImage re-encodes captured PNG bytes to the target format.
func (a *Assembler) encodeImage(data []byte, format domain.OutputFormat) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding captured page: %v", domain.ErrAssemblyFailed, err)
	}

	var buf bytes.Buffer
	switch format {
	case domain.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case domain.FormatPNG:
		err = png.Encode(&buf, img)
	case domain.FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: unsupported image format %q", domain.ErrAssemblyFailed, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", domain.ErrAssemblyFailed, format, err)
	}
	return buf.Bytes(), nil
}

// assemblePDF builds one PDF with one page per captured image, page
// boxes sized to each image's pixel dimensions in points.
func (a *Assembler) assemblePDF(pages []*domain.ScanPage) ([]byte, error) {
	first, err := pageRect(pages[0].Data)
	if err != nil {
		return nil, err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *first, Unit: gopdf.UnitPT})

	for i, page := range pages {
		rect, err := pageRect(page.Data)
		if err != nil {
			return nil, err
		}
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: rect})

		holder, err := gopdf.ImageHolderByBytes(page.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: loading page %d: %v", domain.ErrAssemblyFailed, i+1, err)
		}
		if err := pdf.ImageByHolder(holder, 0, 0, rect); err != nil {
			return nil, fmt.Errorf("%w: placing page %d: %v", domain.ErrAssemblyFailed, i+1, err)
		}
	}

	data, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, fmt.Errorf("%w: writing pdf: %v", domain.ErrAssemblyFailed, err)
	}
	a.logger.Debug("Assembled PDF", "pages", len(pages), "bytes", len(data))
	return data, nil
}

// pageRect reads the pixel dimensions of an encoded image.
func pageRect(data []byte) (*gopdf.Rect, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: reading page dimensions: %v", domain.ErrAssemblyFailed, err)
	}
	return &gopdf.Rect{W: float64(cfg.Width), H: float64(cfg.Height)}, nil
}
