package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/config"
	"github.com/toshio/canistorage/pkg/identity"
)

var initPrincipal string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the root node",
	Long: `init creates the root node directly against the configured volume,
granting the given principal full access there. It talks to storage
directly rather than through a running server, so it can be used to
bootstrap a fresh volume before the first "start".`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPrincipal, "principal", "", "principal to grant root access to (required)")
	initCmd.MarkFlagRequired("principal")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initPrincipal == "" {
		return fmt.Errorf("--principal is required")
	}

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
	if err := store.InitCanistorage(ctx, identity.Principal(initPrincipal)); err != nil {
		return fmt.Errorf("init root node: %w", err)
	}

	fmt.Printf("root node initialized, owner: %s\n", initPrincipal)
	return nil
}
