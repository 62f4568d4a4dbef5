package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConverter()
	c.normalizeValidator()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TemplateDir, err = expandPath(c.Paths.TemplateDir); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConverter() {
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	c.Converter.Ghostscript = strings.TrimSpace(c.Converter.Ghostscript)
	if c.Converter.Ghostscript == "" {
		c.Converter.Ghostscript = defaultGhostscript
	}
	if c.Converter.Timeout <= 0 {
		c.Converter.Timeout = defaultConverterTimeout
	}
	if c.Converter.PDFAVersion == 0 {
		c.Converter.PDFAVersion = defaultPDFAVersion
	}
}

func (c *Config) normalizeValidator() {
	c.Validator.Binary = strings.TrimSpace(c.Validator.Binary)
	if c.Validator.Binary == "" {
		c.Validator.Binary = defaultValidatorBinary
	}
	if c.Validator.Timeout <= 0 {
		c.Validator.Timeout = defaultValidatorTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
