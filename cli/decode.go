package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallnest/wxhook/weixin"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a webhook XML payload and print it as JSON",
	Long:  `Decode a message delivery payload. Reads stdin when no file or "-" is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

// decodedMessage decode 命令的 JSON 输出
type decodedMessage struct {
	Kind    weixin.MessageKind     `json:"kind"`
	Message weixin.IncomingMessage `json:"message"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	msg, err := weixin.Decode(data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(decodedMessage{Kind: msg.Kind(), Message: msg})
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}
