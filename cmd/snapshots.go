package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmllr/ytsnap/internal"
)

// snapshotsCmd represents the snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived snapshots",
	Long:  `List the snapshot files in the archive directory, newest first.`,
	Example: `  # List archived snapshots
  ytsnap snapshots`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		archive := internal.NewArchive(config.ArchiveDir)
		entries, err := archive.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No snapshots in %s\n", config.ArchiveDir)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Size, e.Modified.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
}
