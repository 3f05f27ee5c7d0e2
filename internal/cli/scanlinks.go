package cli

import (
	"github.com/spf13/cobra"

	"adwarden/internal/core/linkscan"
	"adwarden/internal/platform/config"
)

func newScanLinksCmd(cfg config.Conf) *cobra.Command {
	return &cobra.Command{
		Use:   "scan-links [TEXT...]",
		Short: "Report suspicious links in text (stdin when no args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			s := linkscan.New(linkscan.FromConfig(cfg.Prefix("ADWARDEN_LINKS_")))
			return printJSON(cmd, s.Scan(text))
		},
	}
}
