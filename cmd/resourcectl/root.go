package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/apiadapter/version"
)

const serviceName = "resourcectl"

// Flag names.
const (
	flagConfig  = "config"
	flagEnvFile = "env-file"
	flagToken   = "token"
	flagEmail   = "email"
	flagOutput  = "output"
	flagQuery   = "query"
	flagIDs     = "ids"
)

// Output formats.
const (
	outputJSON = "json"
	outputRaw  = "raw"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Access a JSON:API resource API through the resource adapter",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP(flagConfig, "c", "", "Path to the config file (default: searched as config.yml)")
	flags.String(flagEnvFile, "", "Path to a .env file (default: searched as .env)")
	flags.String(flagToken, "", "Access token for the session (default: $API_TOKEN)")
	flags.String(flagEmail, "", "Account email for the devise authorizer (default: $API_EMAIL)")
	flags.StringP(flagOutput, "o", outputJSON, `Output format, "json" or "raw"`)

	cmd.AddCommand(newURLCmd(), newGetCmd(), newDeleteCmd())
	return cmd
}
