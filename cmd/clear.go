package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmllr/ytsnap/internal"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all archived snapshots",
	Example: `  # Clear the archive (asks for confirmation)
  ytsnap clear

  # Clear without confirmation
  ytsnap clear --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Printf("Delete all snapshots in %s? (y/N): ", config.ArchiveDir)
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(scanner.Text())), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		archive := internal.NewArchive(config.ArchiveDir)
		deleted, err := archive.Clear()
		fmt.Printf("Deleted %d file(s).\n", deleted)
		return err
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
