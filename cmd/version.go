/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/longkey1/gemchat/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gemchat build information",
	Long: `Print the gemchat version, the commit and time it was built from,
and the Go toolchain and platform.

Use --short for the bare version number, or --json for a machine-readable
object.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		asJSON, _ := cmd.Flags().GetBool("json")
		return printVersion(cmd.OutOrStdout(), short, asJSON)
	},
}

func printVersion(w io.Writer, short, asJSON bool) error {
	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(version.Get())
	case short:
		_, err := fmt.Fprintln(w, version.Short())
		return err
	default:
		_, err := fmt.Fprintln(w, version.Info())
		return err
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.Short()

	versionCmd.Flags().BoolP("short", "s", false, "Show only version number")
	versionCmd.Flags().Bool("json", false, "Print build information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}
