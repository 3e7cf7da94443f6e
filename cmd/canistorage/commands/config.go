package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toshio/canistorage/pkg/config"
)

var forceConfigInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Writes a starter configuration file with default values to the
config path (or the --config path, if given), refusing to overwrite an
existing file unless --force is passed.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceConfigInit, "force", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := GetConfigFile()
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !forceConfigInit {
		return fmt.Errorf("%s already exists, pass --force to overwrite", path)
	}

	cfg := config.GetDefaultConfig()
	cfg.Auth.SigningKey = "change-me"

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("wrote default configuration to %s\n", path)
	fmt.Println("update auth.signing_key before starting the server")
	return nil
}
