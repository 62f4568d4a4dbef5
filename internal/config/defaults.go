package config

import "time"

const (
	defaultTemplateDir      = "~/.local/share/docforge/templates"
	defaultOutputDir        = "~/.local/share/docforge/outputs"
	defaultStagingDir       = "~/.local/share/docforge/staging"
	defaultLogDir           = "~/.local/share/docforge/logs"
	defaultConverterBinary  = "soffice"
	defaultGhostscript      = "gs"
	defaultConverterTimeout = 120
	defaultPDFAVersion      = 1
	defaultValidatorBinary  = "verapdf"
	defaultValidatorTimeout = 90
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns the repository default configuration. Paths keep their tilde
// form until normalize expands them.
func Default() Config {
	return Config{
		Paths: Paths{
			TemplateDir: defaultTemplateDir,
			OutputDir:   defaultOutputDir,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
		},
		Converter: Converter{
			Binary:      defaultConverterBinary,
			Ghostscript: defaultGhostscript,
			Timeout:     defaultConverterTimeout,
			PDFAVersion: defaultPDFAVersion,
		},
		Validator: Validator{
			Binary:  defaultValidatorBinary,
			Timeout: defaultValidatorTimeout,
		},
		Render: Render{
			Strict: false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// ConverterTimeout returns the converter timeout as a duration.
func (c *Config) ConverterTimeout() time.Duration {
	return time.Duration(c.Converter.Timeout) * time.Second
}

// ValidatorTimeout returns the validator timeout as a duration.
func (c *Config) ValidatorTimeout() time.Duration {
	return time.Duration(c.Validator.Timeout) * time.Second
}
