package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallnest/wxhook/config"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage secrets in the system keyring",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Store a secret and print its config reference",
	Long: `Store a secret in the system keyring. The printed reference
(keyring:<name>) can be used as weixin.token in the config file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := config.StoreSecret(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ref)
		return nil
	},
}

var secretGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a masked secret from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]
		if !strings.HasPrefix(ref, config.KeyringPrefix) {
			ref = config.KeyringPrefix + ref
		}
		value, err := config.ResolveSecret(ref)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.MaskSecret(value))
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretGetCmd)
	rootCmd.AddCommand(secretCmd)
}
