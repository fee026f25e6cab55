package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrcraft/qrcraft/internal/share"
)

var (
	shareText  string
	sharePrint bool
)

var shareCmd = &cobra.Command{
	Use:       "share <platform>",
	Short:     "Open a share link for text on twitter, facebook, linkedin or instagram",
	Args:      cobra.ExactArgs(1),
	ValidArgs: platformNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opener share.Opener = share.BrowserOpener{}
		if sharePrint {
			opener = &share.LinkRecorder{}
		}
		return runShare(args[0], shareText, opener, cmd.OutOrStdout())
	},
}

func init() {
	shareCmd.Flags().StringVar(&shareText, "text", "", "text or URL to share")
	shareCmd.Flags().BoolVar(&sharePrint, "print", false, "print the link instead of opening a browser")
	rootCmd.AddCommand(shareCmd)
}

func platformNames() []string {
	names := make([]string, len(share.Platforms))
	for i, p := range share.Platforms {
		names[i] = string(p)
	}
	return names
}

func runShare(platform, text string, opener share.Opener, stdout io.Writer) error {
	p, err := share.ParsePlatform(platform)
	if err != nil {
		return fmt.Errorf("%w (want one of %s)", err, strings.Join(platformNames(), ", "))
	}
	u, err := share.NewSharer(opener).Share(p, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, u)
	return nil
}
