package cli

import (
	"github.com/spf13/cobra"

	"adwarden/internal/core/cloudrules"
	"adwarden/internal/platform/config"
)

type keywordsOutput struct {
	Stats    cloudrules.Stats `json:"stats"`
	Keywords []string         `json:"keywords"`
}

func newKeywordsCmd(cfg config.Conf) *cobra.Command {
	var (
		url   string
		local bool
	)
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Fetch the cloud keyword list and print the effective pre-filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt := cloudrules.FromConfig(cfg)
			if url != "" {
				opt.URL = url
			}
			opt.CloudEnabled = !local
			m := cloudrules.New(opt)
			if !local {
				if err := m.Refresh(cmd.Context()); err != nil {
					return err
				}
			}
			return printJSON(cmd, keywordsOutput{Stats: m.Stats(), Keywords: m.AllKeywords()})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "keyword list url (defaults to ADWARDEN_CLOUD_URL)")
	cmd.Flags().BoolVar(&local, "local", false, "skip the fetch and print local keywords only")
	return cmd
}
