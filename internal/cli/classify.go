package cli

import (
	"github.com/spf13/cobra"

	"adwarden/internal/adapters/llm"
	"adwarden/internal/platform/config"
)

type classifyOutput struct {
	IsAd        bool `json:"isAd"`
	Sensitivity int  `json:"sensitivity"`
	QZone       bool `json:"qzone,omitempty"`
}

func newClassifyCmd(cfg config.Conf) *cobra.Command {
	var (
		sensitivity int
		qzone       bool
	)
	cmd := &cobra.Command{
		Use:   "classify [TEXT...]",
		Short: "Ask the model whether text is an advertisement (stdin when no args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			cls := llm.New(llm.FromConfig(cfg))

			var isAd bool
			if qzone {
				isAd, err = cls.ClassifyQZone(cmd.Context(), text)
				sensitivity = 10
			} else {
				isAd, err = cls.Classify(cmd.Context(), text, sensitivity)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, classifyOutput{IsAd: isAd, Sensitivity: sensitivity, QZone: qzone})
		},
	}
	cmd.Flags().IntVarP(&sensitivity, "sensitivity", "s", cfg.Prefix("ADWARDEN_MOD_").MayIntIn("SENSITIVITY", 7, 1, 10), "detection sensitivity 1-10")
	cmd.Flags().BoolVar(&qzone, "qzone", false, "treat the text as a QQ space share")
	return cmd
}
