package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/config"
	"github.com/toshio/canistorage/pkg/identity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print volume and root node health",
	Long: `status opens the configured volume directly and reports whether the
root node has been initialized, without starting the HTTP server.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()
	vol, err := config.BuildVolume(ctx, cfg.Volume)
	if err != nil {
		return fmt.Errorf("build volume: %w", err)
	}

	store := blobstore.New(vol, clock.System{})
	fmt.Printf("volume backend: %s\n", cfg.Volume.Backend)
	fmt.Printf("version:        %s\n", store.GetVersion())

	_, err = store.HasPermission(ctx, identity.Anonymous, "/")
	switch {
	case err == nil:
		fmt.Println("root node:      initialized")
	case apperror.CodeOf(err) == apperror.CodeNotFound:
		fmt.Println("root node:      not initialized")
	default:
		fmt.Printf("root node:      inaccessible (%v)\n", err)
	}

	return nil
}
