package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openmined/syftperm/internal/acl"
	"github.com/openmined/syftperm/internal/store"
	"github.com/openmined/syftperm/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "syftperm",
	Short:         "Resolve and edit datasite file permissions",
	Version:       version.Detailed(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix("syftperm")
		viper.AutomaticEnv()
		if err := viper.BindPFlag("dir", cmd.Flags().Lookup("dir")); err != nil {
			return err
		}
		if err := viper.BindPFlag("user", cmd.Flags().Lookup("user")); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("dir", "d", ".", "datasites root directory")
	rootCmd.PersistentFlags().StringP("user", "u", "", "principal to resolve for")
	rootCmd.AddCommand(resolveCmd, explainCmd, grantCmd, revokeCmd, versionCmd)
}

// newService builds the engine over the configured datasites root.
func newService() (*acl.Service, error) {
	dir := viper.GetString("dir")
	if dir == "" {
		return nil, fmt.Errorf("datasites root is required (--dir or SYFTPERM_DIR)")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("datasites root %q: %w", dir, err)
	}
	return acl.NewService(store.NewLocalStore(dir)), nil
}

func requireUser() (string, error) {
	user := viper.GetString("user")
	if user == "" {
		return "", fmt.Errorf("a principal is required (--user or SYFTPERM_USER)")
	}
	return user, nil
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printGrant(grant *acl.Grant) {
	fmt.Println(grant.Level)
	for _, src := range grant.Sources {
		fmt.Printf("  %s\n", src)
	}
	for _, warn := range grant.Warnings {
		slog.Warn(strings.TrimSpace(warn))
	}
}
