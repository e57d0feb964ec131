package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"graph-cloner/cloner"
	"graph-cloner/internal/graphgen"
)

var (
	demoMode string
	demoDump bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Clone small fixtures with shared references and cycles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := engineOptions(cmd, "", demoMode, 0)
		if err != nil {
			return err
		}

		e, err := cloner.New(opts...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		chain, err := cloner.CloneOf(ctx, e, graphgen.Chain())
		if err != nil {
			return err
		}

		ring := graphgen.Ring(3)

		ringCopy, err := cloner.CloneOf(ctx, e, ring)
		if err != nil {
			return err
		}

		pair := graphgen.Shared()

		pairCopy, err := cloner.CloneOf(ctx, e, pair)
		if err != nil {
			return err
		}

		titleColor.Fprintf(out, "%s\n", e.Mode())
		check(out, "chain copied in order",
			chain.Name == "A" && chain.Next.Name == "B" && chain.Next.Next.Name == "C" && chain.Next.Next.Next == nil)
		check(out, "ring closes on its own head",
			ringCopy != ring && ringCopy.Next.Next.Next == ringCopy)
		check(out, "shared item stays shared",
			pairCopy.Left == pairCopy.Right && pairCopy.Index["a"] == pairCopy.Left && pairCopy.Left != pair.Left)
		check(out, "self reference points at the copy",
			pairCopy.Self == pairCopy)

		if demoDump {
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
			cfg.Fdump(out, chain, pairCopy)
		}

		return nil
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoMode, "mode", "m", "depth-first", "Execution mode: depth-first, breadth-first or parallel")
	demoCmd.Flags().BoolVar(&demoDump, "dump", false, "Dump the copies")
}

func check(w io.Writer, what string, ok bool) {
	if ok {
		fmt.Fprintf(w, "  %s %s\n", okColor.Sprint("ok"), what)
		return
	}

	fmt.Fprintf(w, "  %s %s\n", failColor.Sprint("FAIL"), what)
}
