package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Server flags
	Port   int    `flag:"port,p" desc:"Port to serve on" default:"8080"`
	Host   string `flag:"host" desc:"Host to bind to" default:"localhost"`
	Open   bool   `flag:"open" desc:"Open the browser on start" default:"false"`
	NoOpen bool   `flag:"no-open" desc:"Never open the browser" default:"false"`

	// Render flags
	ButtonLinks  bool `flag:"button-links" desc:"Render links as buttons" default:"false"`
	ShowLinkText bool `flag:"show-link-text" desc:"Show the source label next to link icons" default:"false"`

	// Output flags
	OutputFormat string `flag:"format,f" desc:"Output format (table|json|yaml)" default:"table"`
	Quiet        bool   `flag:"quiet,q" desc:"Suppress output" default:"false"`
}

var validFormats = []string{"table", "json", "yaml"}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "server":
			addServerFlags(cmd, flags)
		case "render":
			addRenderFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addServerFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().IntVarP(&flags.Port, "port", "p", 8080, "Port to serve on")
	cmd.Flags().StringVar(&flags.Host, "host", "localhost", "Host to bind to")
	cmd.Flags().BoolVar(&flags.Open, "open", false, "Open the browser on start")
	cmd.Flags().BoolVar(&flags.NoOpen, "no-open", false, "Never open the browser")
}

func addRenderFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().BoolVar(&flags.ButtonLinks, "button-links", false, "Render links as buttons")
	cmd.Flags().BoolVar(&flags.ShowLinkText, "show-link-text", false, "Show the source label next to link icons")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "format", "f", "table", "Output format (table|json|yaml)")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.Open && f.NoOpen {
		return fmt.Errorf("cannot specify both --open and --no-open")
	}

	if f.OutputFormat != "" {
		if err := ValidateFormat(f.OutputFormat); err != nil {
			return err
		}
	}

	return nil
}

// SetViperBindings binds flags to viper configuration keys. Flags the
// command does not define are skipped.
func SetViperBindings(cmd *cobra.Command, bindings map[string]string) {
	for flagName, configKey := range bindings {
		if flag := cmd.Flags().Lookup(flagName); flag != nil {
			_ = viper.BindPFlag(configKey, flag)
		}
	}
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidatePort checks a port flag value.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}

	return nil
}

// ValidateFileExists accepts an empty name for optional files.
func ValidateFileExists(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}

// ValidateFormat checks an output format flag value.
func ValidateFormat(format string) error {
	for _, valid := range validFormats {
		if strings.EqualFold(format, valid) {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %s, must be one of: %s",
		format, strings.Join(validFormats, ", "))
}
