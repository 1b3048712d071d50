package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"highrust/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "pretty":
			fmt.Fprint(cmd.OutOrStdout(), version.Pretty())
		case "json":
			data, err := version.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		default:
			return fmt.Errorf("invalid --format value %q (expected pretty|json)", format)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
