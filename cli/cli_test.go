package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/smallnest/wxhook/config"
	"github.com/smallnest/wxhook/responder"
	"github.com/smallnest/wxhook/weixin"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags 恢复各子命令的 flag，避免用例之间互相影响
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "wxhook "+Version+"\n", out)
}

func TestSignCommand(t *testing.T) {
	out, err := run(t, "", "sign", "--token", "tok", "--timestamp", "1409304348", "--nonce", "1405727853")
	require.NoError(t, err)

	want := weixin.Sign("tok", "1409304348", "1405727853")
	assert.Contains(t, out, "timestamp=1409304348\n")
	assert.Contains(t, out, "nonce=1405727853\n")
	assert.Contains(t, out, "signature="+want+"\n")
}

func TestSignCommandVerify(t *testing.T) {
	sig := weixin.Sign("tok", "1", "2")

	out, err := run(t, "", "sign", "--token", "tok", "--timestamp", "1", "--nonce", "2", "--verify", sig)
	require.NoError(t, err)
	assert.Contains(t, out, "signature ok")

	_, err = run(t, "", "sign", "--token", "other", "--timestamp", "1", "--nonce", "2", "--verify", sig)
	assert.ErrorIs(t, err, weixin.ErrSignatureInvalid)
}

func TestSignCommandUsesConfigToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weixin":{"token":"from_file"}}`), 0o600))

	out, err := run(t, "", "sign", "--config", path, "--timestamp", "1", "--nonce", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "signature="+weixin.Sign("from_file", "1", "2"))
}

func TestSignCommandRequiresToken(t *testing.T) {
	_, err := run(t, "", "sign")
	assert.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	body := `<xml><ToUserName><![CDATA[gh]]></ToUserName><FromUserName><![CDATA[user]]></FromUserName>` +
		`<CreateTime>1348831860</CreateTime><MsgType><![CDATA[event]]></MsgType>` +
		`<Event><![CDATA[CLICK]]></Event><EventKey><![CDATA[V1001]]></EventKey></xml>`

	out, err := run(t, body, "decode")
	require.NoError(t, err)

	var got struct {
		Kind    string                 `json:"kind"`
		Message map[string]interface{} `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "event", got.Kind)
	assert.Equal(t, "CLICK", got.Message["Event"])
	assert.Equal(t, "V1001", got.Message["EventKey"])
	assert.Equal(t, "user", got.Message["FromUserName"])
}

func TestDecodeCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<xml><MsgType>voice</MsgType></xml>`), 0o600))

	_, err := run(t, "", "decode", path)
	assert.ErrorIs(t, err, weixin.ErrUnsupportedMessageType)
}

func TestReplyCommand(t *testing.T) {
	out, err := run(t, "", "reply", "--to", "user", "--from", "gh", "--time", "12345678", "hi")
	require.NoError(t, err)

	want, err := weixin.Encode(&weixin.TextReply{Content: "hi"}, "user", "gh", 12345678)
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out)
}

func TestReplyCommandRequiresUsers(t *testing.T) {
	_, err := run(t, "", "reply", "hi")
	assert.Error(t, err)
}

func TestSecretCommands(t *testing.T) {
	keyring.MockInit()

	out, err := run(t, "", "secret", "set", "prod", "s3cr3t-token")
	require.NoError(t, err)
	assert.Equal(t, config.KeyringPrefix+"prod\n", out)

	out, err = run(t, "", "secret", "get", "prod")
	require.NoError(t, err)
	assert.Equal(t, "****oken\n", out)
}

func TestNewResponder(t *testing.T) {
	r, err := newResponder(config.ResponderConfig{Mode: "echo", LinkPicURL: "http://example.com/p.png"})
	require.NoError(t, err)
	echo, ok := r.(*responder.Echo)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/p.png", echo.LinkPicURL)

	r, err = newResponder(config.ResponderConfig{Mode: "silent"})
	require.NoError(t, err)
	reply, err := r.Respond(context.Background(), &weixin.TextMessage{Content: "hi"})
	require.NoError(t, err)
	assert.Nil(t, reply)

	_, err = newResponder(config.ResponderConfig{Mode: "llm"})
	assert.Error(t, err)
}
