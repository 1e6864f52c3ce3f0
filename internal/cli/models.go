package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"llamapanama/internal/common/fsutil"
	"llamapanama/internal/registry"
)

func newModelsCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List *.gguf models in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = g.cfg.ModelsDir
			}
			abs, err := fsutil.Resolve(dir)
			if err != nil {
				return err
			}
			if !fsutil.PathExists(abs) {
				return fmt.Errorf("models dir does not exist: %s", abs)
			}
			models, err := registry.LoadDir(abs)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tQUANT\tSIZE")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", m.ID, m.Name, m.Quant, m.SizeBytes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (default from config models_dir)")
	return cmd
}
