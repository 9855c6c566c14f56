package wrapper

import (
	"errors"
	"fmt"
	"strings"
)

// PDFLibraryFactory creates PDF library instances with unified interface
type PDFLibraryFactory struct {
	defaultLibrary LibraryType
	config         FactoryConfig
}

// FactoryConfig contains configuration options for the factory
type FactoryConfig struct {
	// PreferredLibrary is the library LibraryAuto tries first
	PreferredLibrary LibraryType `json:"preferred_library"`

	// EnableFallback lets LibraryAuto retry with the other library when the
	// preferred one cannot open a file
	EnableFallback bool `json:"enable_fallback"`

	// MaxFileSize limits the size of documents handed to Open (in bytes)
	MaxFileSize int64 `json:"max_file_size"`
}

// NewPDFLibraryFactory creates a new factory with default configuration
func NewPDFLibraryFactory() *PDFLibraryFactory {
	return &PDFLibraryFactory{
		defaultLibrary: LibraryAuto,
		config: FactoryConfig{
			PreferredLibrary: LibraryLedongthuc,
			EnableFallback:   true,
			MaxFileSize:      100 * 1024 * 1024, // 100MB
		},
	}
}

// NewPDFLibraryFactoryWithConfig creates a factory with custom configuration
func NewPDFLibraryFactoryWithConfig(config FactoryConfig) *PDFLibraryFactory {
	if config.PreferredLibrary == "" || config.PreferredLibrary == LibraryAuto {
		config.PreferredLibrary = LibraryLedongthuc
	}
	return &PDFLibraryFactory{
		defaultLibrary: LibraryAuto,
		config:         config,
	}
}

// Create instantiates a PDF library of the specified type
func (f *PDFLibraryFactory) Create(libType LibraryType) (PDFLibrary, error) {
	switch libType {
	case LibraryPDFCPU:
		return f.createPDFCPULibrary(), nil
	case LibraryLedongthuc:
		return f.createLedongthucLibrary(), nil
	case LibraryAuto:
		return f.createAutoLibrary(), nil
	default:
		return nil, &WrapperError{
			Library: libType,
			Op:      "create",
			Err:     fmt.Errorf("unknown library type: %s", libType),
		}
	}
}

// CreateDefault instantiates the factory's default library
func (f *PDFLibraryFactory) CreateDefault() (PDFLibrary, error) {
	return f.Create(f.defaultLibrary)
}

func (f *PDFLibraryFactory) createPDFCPULibrary() PDFLibrary {
	return NewPDFCPULibrary(f.config)
}

func (f *PDFLibraryFactory) createLedongthucLibrary() PDFLibrary {
	return NewLedongthucLibrary(f.config)
}

func (f *PDFLibraryFactory) createAutoLibrary() PDFLibrary {
	auto := &AutoLibrary{}
	switch f.config.PreferredLibrary {
	case LibraryPDFCPU:
		auto.primary = f.createPDFCPULibrary()
		auto.fallback = f.createLedongthucLibrary()
	default:
		auto.primary = f.createLedongthucLibrary()
		auto.fallback = f.createPDFCPULibrary()
	}
	if !f.config.EnableFallback {
		auto.fallback = nil
	}
	return auto
}

// GetDefaultLibrary returns the current default library type
func (f *PDFLibraryFactory) GetDefaultLibrary() LibraryType {
	return f.defaultLibrary
}

// GetConfig returns the current factory configuration
func (f *PDFLibraryFactory) GetConfig() FactoryConfig {
	return f.config
}

// GetSupportedLibraries returns a list of all supported library types
func (f *PDFLibraryFactory) GetSupportedLibraries() []LibraryType {
	return SupportedLibraries()
}

// ValidateLibraryType checks if a library type is supported
func (f *PDFLibraryFactory) ValidateLibraryType(libType LibraryType) error {
	_, err := ParseLibraryType(string(libType))
	return err
}

// SupportedLibraries lists the accepted decoder names
func SupportedLibraries() []LibraryType {
	return []LibraryType{LibraryAuto, LibraryLedongthuc, LibraryPDFCPU}
}

// ParseLibraryType parses a decoder name, case-insensitively
func ParseLibraryType(name string) (LibraryType, error) {
	libType := LibraryType(strings.ToLower(strings.TrimSpace(name)))
	for _, supported := range SupportedLibraries() {
		if libType == supported {
			return libType, nil
		}
	}
	return "", &WrapperError{
		Library: libType,
		Op:      "validate",
		Err:     fmt.Errorf("unsupported library type: %q", name),
	}
}

// AutoLibrary opens documents with a primary library and retries with a
// fallback library when the primary cannot parse the file
type AutoLibrary struct {
	primary  PDFLibrary
	fallback PDFLibrary
}

// Open parses an in-memory PDF
func (a *AutoLibrary) Open(data []byte) (PDFDocument, error) {
	doc, err := a.primary.Open(data)
	if err == nil || a.fallback == nil {
		return doc, err
	}

	doc, fallbackErr := a.fallback.Open(data)
	if fallbackErr == nil {
		return doc, nil
	}

	return nil, &WrapperError{
		Library: LibraryAuto,
		Op:      "open",
		Err:     errors.Join(err, fallbackErr),
	}
}

// GetLibraryType returns the library type
func (a *AutoLibrary) GetLibraryType() LibraryType {
	return LibraryAuto
}

// GetVersion returns the versions of the wrapped libraries
func (a *AutoLibrary) GetVersion() string {
	if a.fallback == nil {
		return a.primary.GetVersion()
	}
	return a.primary.GetVersion() + "+" + a.fallback.GetVersion()
}
