package common

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CommonFlags contains flags shared by the sweep commands
type CommonFlags struct {
	EnvFile *string

	Verbose  *bool
	Silent   *bool
	NoEmojis *bool
	NoColors *bool

	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers common flags on fs
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile: fs.String("env", ".env", "Environment file path"),

		Verbose:  fs.Bool("verbose", false, "Enable verbose output"),
		Silent:   fs.Bool("silent", false, "Enable silent mode (minimal output)"),
		NoEmojis: fs.Bool("no-emojis", false, "Disable emoji output"),
		NoColors: fs.Bool("no-colors", false, "Disable colored output"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// FlagValidator collects flag validation errors
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{
		errors: make([]string, 0),
	}
}

// ValidateFloat validates a float flag value
func (v *FlagValidator) ValidateFloat(name string, value float64, min, max float64) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %.4f and %.4f, got: %.4f", name, min, max, value))
	}
	return v
}

// ValidateInt validates an int flag value
func (v *FlagValidator) ValidateInt(name string, value int, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %d and %d, got: %d", name, min, max, value))
	}
	return v
}

// ValidateChoice validates that a string is one of the allowed choices
func (v *FlagValidator) ValidateChoice(name, value string, choices []string) *FlagValidator {
	for _, choice := range choices {
		if value == choice {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of [%s], got: %s", name, strings.Join(choices, ", "), value))
	return v
}

// ValidateFile validates that a file exists
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s file does not exist: %s", name, path))
	} else if err == nil && info.IsDir() {
		v.errors = append(v.errors, fmt.Sprintf("%s is a directory: %s", name, path))
	}
	return v
}

// AddError adds a custom validation error
func (v *FlagValidator) AddError(message string) *FlagValidator {
	v.errors = append(v.errors, message)
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *FlagValidator) GetErrors() []string {
	return v.errors
}

// GetError returns a formatted error message with all validation errors
func (v *FlagValidator) GetError() error {
	if len(v.errors) == 0 {
		return nil
	}

	if len(v.errors) == 1 {
		return fmt.Errorf("validation error: %s", v.errors[0])
	}

	return fmt.Errorf("validation errors:\n  - %s", strings.Join(v.errors, "\n  - "))
}

// PrintErrors prints all validation errors
func (v *FlagValidator) PrintErrors(w io.Writer) {
	if len(v.errors) == 0 {
		return
	}

	fmt.Fprintf(w, "❌ Flag validation errors:\n")
	for _, err := range v.errors {
		fmt.Fprintf(w, "   • %s\n", err)
	}
}

// UsageFormatter provides utilities for formatting flag usage
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Arguments      string
	Examples       []UsageExample
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
		Examples:       make([]UsageExample, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// PrintUsage prints formatted usage information followed by fs defaults
func (u *UsageFormatter) PrintUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "  %s [OPTIONS] %s\n\n", filepath.Base(os.Args[0]), u.Arguments)

	if len(u.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(w, "  # %s\n", example.Description)
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(w, "OPTIONS:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// CheckHelpAndVersion handles -help and -version, reporting whether the
// command should exit
func CheckHelpAndVersion(w io.Writer, fs *flag.FlagSet, commonFlags *CommonFlags, formatter *UsageFormatter) bool {
	if *commonFlags.Version {
		PrintVersion(w, formatter.AppName)
		return true
	}

	if *commonFlags.Help {
		formatter.PrintUsage(w, fs)
		return true
	}

	return false
}

// SetupLogger builds a console logger from the common flags
func SetupLogger(w io.Writer, commonFlags *CommonFlags) *Logger {
	logger := NewLogger(w)

	if *commonFlags.Silent {
		logger.SetSilentMode(true)
	}

	if *commonFlags.Verbose {
		logger.Level = LogLevelDebug
	}

	if *commonFlags.NoEmojis {
		logger.ShowEmojis = false
	}

	if *commonFlags.NoColors {
		logger.ShowColors = false
	}
	return logger
}
