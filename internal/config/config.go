package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/proof-comments/internal/pdf/wrapper"
	"github.com/a3tai/proof-comments/internal/proof"
)

const (
	// Mode constants
	ModeCLI    = "cli"
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOutput      = "comments.xlsx"

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "PROOF_COMMENTS"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the proof comment extractor
type Config struct {
	// Server configuration
	Mode string // "cli", "stdio" or "server"
	Host string
	Port int

	// Input selection
	PDFDirectory string
	DirectorySet bool     // --dir or PROOF_COMMENTS_DIR was given
	Files        []string // positional arguments, in order

	// Report configuration
	OutputPath string
	UploadDate string // DD.MM.YYYY; empty means today
	Banner     string
	Decoder    string // auto, ledongthuc or pdfcpu

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:         ModeCLI,
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		OutputPath:   DefaultOutput,
		Banner:       proof.DefaultBanner,
		Decoder:      string(wrapper.LibraryAuto),
		Version:      "1.0.0",
		ServerName:   "proof-comments",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:], os.Stderr)
}

// Load parses args (without the program name) and the environment. Usage is
// written to usage on parse errors and --help.
func Load(args []string, usage io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	// Check for version flag before parsing
	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := defineCommandLineFlags(cfg)
	setupUsageMessage(flags, usage)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)
	cfg.Files = flags.Args()
	_, envDir := os.LookupEnv(EnvPrefix + "_DIR")
	cfg.DirectorySet = flags.Changed("dir") || envDir

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("output", cfg.OutputPath)
	v.SetDefault("upload-date", cfg.UploadDate)
	v.SetDefault("banner", cfg.Banner)
	v.SetDefault("decoder", cfg.Decoder)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("proof-comments", pflag.ContinueOnError)
	flags.String("mode", cfg.Mode, "Run mode: 'cli' for one extraction, 'stdio' for MCP, 'server' for HTTP")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.PDFDirectory, "Directory searched for proofs when no files are given")
	flags.String("output", cfg.OutputPath, "Workbook written by cli mode")
	flags.String("upload-date", cfg.UploadDate, "Upload date in DD.MM.YYYY (default today)")
	flags.String("banner", cfg.Banner, "Banner written on every row")
	flags.String("decoder", cfg.Decoder, "PDF decoder: auto, ledongthuc or pdfcpu")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	return flags
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(flags *pflag.FlagSet, w io.Writer) {
	flags.SetOutput(w)
	flags.Usage = func() {
		fmt.Fprintf(w, "Usage: proof-comments [options] [file.pdf ...]\n")
		fmt.Fprintf(w, "\nProof Comments - extract reviewer annotations from PDF proofs into comments.xlsx\n\n")
		fmt.Fprintf(w, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  proof-comments WK3_24_Deli_PR1.pdf WK3_24_Deli_PR2.pdf   # extract two proofs\n")
		fmt.Fprintf(w, "  proof-comments --dir=/proofs --upload-date=05.03.2024     # every proof in a directory\n")
		fmt.Fprintf(w, "  proof-comments --mode=stdio --dir=/proofs                 # MCP server\n")
		fmt.Fprintf(w, "  proof-comments --mode=server --host=0.0.0.0 --port=8081   # HTTP upload service\n")
		fmt.Fprintf(w, "\nEnvironment Variables:\n")
		for _, name := range []string{"MODE", "HOST", "PORT", "DIR", "OUTPUT", "UPLOAD_DATE", "BANNER", "DECODER",
			"LOGLEVEL", "MAXFILESIZE"} {
			fmt.Fprintf(w, "  %s_%s\n", EnvPrefix, name)
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.OutputPath = v.GetString("output")
	cfg.UploadDate = strings.TrimSpace(v.GetString("upload-date"))
	cfg.Banner = strings.TrimSpace(v.GetString("banner"))
	cfg.Decoder = strings.ToLower(strings.TrimSpace(v.GetString("decoder")))
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be one of 'cli', 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Long-running modes create the directory they serve
	if c.Mode != ModeCLI {
		if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
			if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(c.OutputPath), ".xlsx") {
		return fmt.Errorf("output path must end in .xlsx: %s", c.OutputPath)
	}

	if c.UploadDate != "" {
		if err := proof.ValidateDate(c.UploadDate); err != nil {
			return err
		}
	}

	if c.Banner == "" {
		return errors.New("banner cannot be empty")
	}

	if _, err := wrapper.ParseLibraryType(c.Decoder); err != nil {
		return fmt.Errorf("invalid decoder: %s (must be one of: auto, ledongthuc, pdfcpu)", c.Decoder)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// LibraryType returns the configured decoder
func (c *Config) LibraryType() wrapper.LibraryType {
	return wrapper.LibraryType(c.Decoder)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, Files: %d, OutputPath: %s, "+
		"UploadDate: %s, Banner: %s, Decoder: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, len(c.Files), c.OutputPath,
		c.UploadDate, c.Banner, c.Decoder, c.LogLevel, c.MaxFileSize)
}

// IsCLIMode returns true for a single extraction run
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
