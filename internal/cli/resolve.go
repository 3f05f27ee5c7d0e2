package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"adwarden/internal/adapters/onebot"
	"adwarden/internal/core/forward"
	"adwarden/internal/core/markup"
	"adwarden/internal/platform/config"
)

func newResolveCmd(cfg config.Conf) *cobra.Command {
	var (
		url   string
		depth int
	)
	cmd := &cobra.Command{
		Use:   "resolve FORWARD_ID",
		Short: "Expand a forwarded message bundle through a OneBot endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt := onebot.FromConfig(cfg)
			if url != "" {
				opt.BaseURL = url
			}
			c := onebot.New(opt)
			if c == nil {
				return fmt.Errorf("no OneBot endpoint: set --url or ADWARDEN_ONEBOT_URL")
			}
			r := forward.New(c, forward.Options{MaxDepth: depth})
			return printJSON(cmd, r.Resolve(cmd.Context(), markup.ForwardTag(args[0]), 0))
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "OneBot HTTP API base url")
	cmd.Flags().IntVar(&depth, "depth", forward.DefaultMaxDepth, "max nested forward depth")
	return cmd
}
