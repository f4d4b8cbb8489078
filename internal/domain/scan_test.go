package domain

import "testing"

func TestParseOutputFormat(t *testing.T) {
	format, err := ParseOutputFormat("jpg")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if format != FormatJPEG {
		t.Errorf("Expected jpg to normalize to jpeg, got %s", format)
	}

	format, err = ParseOutputFormat("  PDF ")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if format != FormatPDF {
		t.Errorf("Expected pdf, got %s", format)
	}

	_, err = ParseOutputFormat("bmp")
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestParsePageSize(t *testing.T) {
	size, err := ParsePageSize("Letter")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if size != PageSizeLetter {
		t.Errorf("Expected Letter, got %s", size)
	}

	_, err = ParsePageSize("B5")
	if err == nil {
		t.Error("Expected error for unsupported page size")
	}
}

func TestScanSettings_Validate(t *testing.T) {
	settings := ScanSettings{Resolution: 300, PageSize: PageSizeA4}
	if err := settings.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	settings.Resolution = 100
	if err := settings.Validate(); err == nil {
		t.Error("Expected error for resolution below minimum")
	}

	settings.Resolution = 2400
	if err := settings.Validate(); err == nil {
		t.Error("Expected error for resolution above maximum")
	}

	settings.Resolution = 300
	settings.PageSize = "Tabloid"
	if err := settings.Validate(); err == nil {
		t.Error("Expected error for unsupported page size")
	}
}

func TestSaveSettings_Validate(t *testing.T) {
	settings := SaveSettings{
		Format:         FormatPDF,
		OutputDir:      "/tmp/scans",
		FilenamePrefix: "scan",
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	settings.OutputDir = "   "
	if err := settings.Validate(); err == nil {
		t.Error("Expected error for empty output folder")
	}

	settings.OutputDir = "/tmp/scans"
	settings.FilenamePrefix = ""
	if err := settings.Validate(); err == nil {
		t.Error("Expected error for empty filename prefix")
	}
}

func TestOutputFormat_MultiPage(t *testing.T) {
	if !FormatPDF.MultiPage() {
		t.Error("Expected pdf to be multi-page")
	}
	for _, f := range []OutputFormat{FormatJPEG, FormatPNG, FormatTIFF} {
		if f.MultiPage() {
			t.Errorf("Expected %s to be single-page", f)
		}
	}
}
