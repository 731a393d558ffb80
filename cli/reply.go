package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/wxhook/weixin"
)

var (
	replyTo   string
	replyFrom string
	replyTime int64
)

var replyCmd = &cobra.Command{
	Use:   "reply <content>",
	Short: "Encode a passive text reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runReply,
}

func init() {
	replyCmd.Flags().StringVar(&replyTo, "to", "", "Recipient openid")
	replyCmd.Flags().StringVar(&replyFrom, "from", "", "Official account id")
	replyCmd.Flags().Int64Var(&replyTime, "time", 0, "CreateTime (default now)")
	_ = replyCmd.MarkFlagRequired("to")
	_ = replyCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	reply := &weixin.TextReply{Content: args[0]}

	var (
		data []byte
		err  error
	)
	if replyTime != 0 {
		data, err = weixin.Encode(reply, replyTo, replyFrom, replyTime)
	} else {
		data, err = weixin.EncodeNow(reply, replyTo, replyFrom)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
