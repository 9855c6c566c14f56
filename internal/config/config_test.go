package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeCLI {
		t.Errorf("Expected default mode to be 'cli', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.OutputPath != "comments.xlsx" {
		t.Errorf("Expected default output to be 'comments.xlsx', got '%s'", cfg.OutputPath)
	}
	if cfg.Banner != "Walmart" {
		t.Errorf("Expected default banner to be 'Walmart', got '%s'", cfg.Banner)
	}
	if cfg.Decoder != "auto" {
		t.Errorf("Expected default decoder to be 'auto', got '%s'", cfg.Decoder)
	}
	if cfg.UploadDate != "" {
		t.Errorf("Expected no default upload date, got '%s'", cfg.UploadDate)
	}
	if cfg.ServerName != "proof-comments" {
		t.Errorf("Expected default server name to be 'proof-comments', got '%s'", cfg.ServerName)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	withDefaults := func(modify func(*Config)) *Config {
		cfg := DefaultConfig()
		cfg.PDFDirectory = tempDir
		modify(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid config - cli mode", config: withDefaults(func(*Config) {})},
		{name: "valid config - stdio mode", config: withDefaults(func(c *Config) { c.Mode = ModeStdio })},
		{name: "valid config - server mode", config: withDefaults(func(c *Config) { c.Mode = ModeServer })},
		{name: "valid upload date", config: withDefaults(func(c *Config) { c.UploadDate = "05.03.2024" })},
		{name: "valid decoder", config: withDefaults(func(c *Config) { c.Decoder = "pdfcpu" })},
		{name: "upper-case xlsx extension", config: withDefaults(func(c *Config) { c.OutputPath = "OUT.XLSX" })},
		{name: "invalid mode", config: withDefaults(func(c *Config) { c.Mode = "batch" }), wantErr: true},
		{name: "invalid port", config: withDefaults(func(c *Config) {
			c.Mode = ModeServer
			c.Port = 70000
		}), wantErr: true},
		{name: "port ignored outside server mode", config: withDefaults(func(c *Config) { c.Port = 0 })},
		{name: "empty directory", config: withDefaults(func(c *Config) { c.PDFDirectory = "" }), wantErr: true},
		{name: "zero max file size", config: withDefaults(func(c *Config) { c.MaxFileSize = 0 }), wantErr: true},
		{name: "empty output", config: withDefaults(func(c *Config) { c.OutputPath = "" }), wantErr: true},
		{name: "csv output", config: withDefaults(func(c *Config) { c.OutputPath = "comments.csv" }), wantErr: true},
		{name: "iso upload date", config: withDefaults(func(c *Config) { c.UploadDate = "2024-03-05" }), wantErr: true},
		{name: "empty banner", config: withDefaults(func(c *Config) { c.Banner = "" }), wantErr: true},
		{name: "unknown decoder", config: withDefaults(func(c *Config) { c.Decoder = "custom" }), wantErr: true},
		{name: "invalid log level", config: withDefaults(func(c *Config) { c.LogLevel = "trace" }), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_CreatesDirectoryForServers(t *testing.T) {
	base := t.TempDir()

	cfg := DefaultConfig()
	cfg.Mode = ModeStdio
	cfg.PDFDirectory = filepath.Join(base, "proofs")
	require.NoError(t, cfg.Validate())
	info, err := os.Stat(cfg.PDFDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg = DefaultConfig()
	cfg.PDFDirectory = filepath.Join(base, "cli-only")
	require.NoError(t, cfg.Validate())
	_, err = os.Stat(cfg.PDFDirectory)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, ModeCLI, cfg.Mode)
	assert.Equal(t, DefaultOutput, cfg.OutputPath)
	assert.Equal(t, "auto", cfg.Decoder)
	assert.Empty(t, cfg.Files)
	assert.True(t, filepath.IsAbs(cfg.PDFDirectory))
	assert.False(t, cfg.DirectorySet, "the working directory is only a default")
}

func TestLoad_FlagsAndPositionalFiles(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load([]string{
		"--dir", dir,
		"--output=report.xlsx",
		"--upload-date", "01.02.2024",
		"--banner", "Sams",
		"--decoder", "PDFCPU",
		"--loglevel", "debug",
		"WK1_24_B.pdf", "WK1_24_A.pdf",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.True(t, cfg.DirectorySet)
	assert.Equal(t, "report.xlsx", cfg.OutputPath)
	assert.Equal(t, "01.02.2024", cfg.UploadDate)
	assert.Equal(t, "Sams", cfg.Banner)
	assert.Equal(t, "pdfcpu", cfg.Decoder)
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, []string{"WK1_24_B.pdf", "WK1_24_A.pdf"}, cfg.Files)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PROOF_COMMENTS_MODE", "server")
	t.Setenv("PROOF_COMMENTS_PORT", "9090")
	t.Setenv("PROOF_COMMENTS_DIR", t.TempDir())
	t.Setenv("PROOF_COMMENTS_UPLOAD_DATE", "31.12.2024")
	t.Setenv("PROOF_COMMENTS_BANNER", "Walmart Canada")

	cfg, err := Load(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.IsServerMode())
	assert.True(t, cfg.DirectorySet)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "31.12.2024", cfg.UploadDate)
	assert.Equal(t, "Walmart Canada", cfg.Banner)

	// flags win over the environment
	cfg, err = Load([]string{"--port", "7070"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]string{"--version"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrVersionRequested)

	var usage bytes.Buffer
	_, err = Load([]string{"--help"}, &usage)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, usage.String(), "PROOF_COMMENTS_UPLOAD_DATE")

	_, err = Load([]string{"--upload-date", "2024-01-01"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = Load([]string{"--no-such-flag"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 8081

	assert.Equal(t, "0.0.0.0:8081", cfg.Address())
	assert.True(t, cfg.IsCLIMode())
	assert.False(t, cfg.IsStdioMode())
	assert.False(t, cfg.IsServerMode())
	assert.Equal(t, "auto", string(cfg.LibraryType()))
	assert.Contains(t, cfg.String(), "Banner: Walmart")
}
