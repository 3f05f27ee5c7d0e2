// Package cli implements the adwarden command line: offline access to the link
// scanner, forward resolver, model classifier and cloud keyword list
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
)

// NewRootCmd builds the command tree. Settings come from the same ADWARDEN_*
// variables the API reads; flags override them
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "adwarden",
		Short:         "adwarden - advertisement moderation tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// stdout carries the JSON results, logs go to stderr
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opt := logger.FromEnv()
			opt.Writer = os.Stderr
			opt.Component = "cli"
			logger.Init(opt)
		},
	}
	cfg := config.New()
	root.AddCommand(
		newScanLinksCmd(cfg),
		newResolveCmd(cfg),
		newClassifyCmd(cfg),
		newKeywordsCmd(cfg),
	)
	return root
}

// Execute runs the root command. Called from main.go
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// textArg joins args, or reads stdin when there are none
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", fmt.Errorf("no text given")
	}
	return s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
