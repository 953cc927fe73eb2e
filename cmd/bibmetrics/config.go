package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/config"
)

var configValidate bool

func init() {
	configCmd.Flags().BoolVar(&configValidate, "validate", false, "Also validate the configuration (exit 2 when invalid)")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after layering defaults, the config
file, .env and environment variables. Credentials are masked.

Examples:
  bibmetrics config
  bibmetrics config --human
  bibmetrics config --validate --mode combined`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the JSON output of config.
type ConfigResponse struct {
	File   string         `json:"file"`
	Valid  *bool          `json:"valid,omitempty"`
	Error  string         `json:"error,omitempty"`
	Config *config.Config `json:"config"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadRawConfig()

	resp := ConfigResponse{File: configFile(), Config: cfg.Masked()}
	var validateErr error
	if configValidate {
		validateErr = cfg.Validate()
		valid := validateErr == nil
		resp.Valid = &valid
		if validateErr != nil {
			resp.Error = validateErr.Error()
		}
	}

	if humanOutput {
		data, err := cfg.MarshalMaskedYAML()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		outputHuman("# %s\n%s", resp.File, data)
		if validateErr != nil {
			outputHuman("\ninvalid: %v\n", validateErr)
		}
	} else if err := outputJSON(resp); err != nil {
		return err
	}

	if validateErr != nil {
		os.Exit(ExitConfigError)
	}
	return nil
}

// configFile names the file Load would read, for display.
func configFile() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	if p := os.Getenv(config.EnvConfigPath); p != "" {
		return config.ExpandPath(p)
	}
	return config.GlobalConfigPath()
}
