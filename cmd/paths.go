package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ytsnap paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Archive directory: %s\n", config.ArchiveDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
