package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toshio/canistorage/pkg/blobstore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n", blobstore.ModuleName, blobstore.Version)
		fmt.Printf("  build commit: %s\n", Commit)
		fmt.Printf("  build date:   %s\n", Date)
		return nil
	},
}
