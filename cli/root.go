package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version 版本号，构建时可通过 -ldflags 覆盖
var Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wxhook",
	Short: "WeChat official account webhook gateway",
	Long: `wxhook verifies, decodes and answers WeChat official account
webhook callbacks. Run "wxhook serve" to start the gateway.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wxhook %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default searches ./.wxhook, . and ~/.wxhook)")
	rootCmd.AddCommand(versionCmd)
}

// Execute 执行根命令
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
