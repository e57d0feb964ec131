package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"graph-cloner/internal/tagcheck"
)

var (
	vetDir    string
	vetTagKey string
)

var vetCmd = &cobra.Command{
	Use:   "vet [packages]",
	Short: "Check copy struct tags in Go packages",
	Long: `vet loads the given packages (./... by default) and reports struct tags
that the cloner would reject at run time or silently ignore.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"./..."}
		}

		res, err := tagcheck.Checker{Key: vetTagKey}.Load(vetDir, args...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		for _, w := range res.Warnings {
			fmt.Fprintf(out, "%s %s\n", color.YellowString("warning:"), w)
		}

		for _, e := range res.Errors {
			fmt.Fprintf(out, "%s %s\n", failColor.Sprint("error:"), e)
		}

		if res.HasErrors() {
			return fmt.Errorf("%d tag error(s)", len(res.Errors))
		}

		okColor.Fprintln(out, "tags ok")

		return nil
	},
}

func init() {
	vetCmd.Flags().StringVarP(&vetDir, "dir", "C", "", "Directory to load packages from")
	vetCmd.Flags().StringVar(&vetTagKey, "tag", "", "Struct tag key (default \"clone\")")
}
