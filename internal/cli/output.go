package cli

import (
	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
)

// addOutputFlags registers -o and --format on a report command
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat applies the configured default format and validates it
func resolveOutputFormat(cc *common.CommandConfig) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if cc.OutputFormat == "" {
			cc.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(cc.OutputFormat, cfg.App.SupportedFormats)
	}
}
