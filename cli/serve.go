package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallnest/wxhook/config"
	"github.com/smallnest/wxhook/gateway"
	"github.com/smallnest/wxhook/internal/logger"
	"github.com/smallnest/wxhook/responder"
)

var (
	servePort    int
	serveBind    string
	serveToken   string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook gateway",
	Long: `Run the HTTP gateway that answers the platform's URL verification
(GET) and message delivery (POST) on the configured webhook path.
The token is reloaded when the config file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Gateway port (overrides config)")
	serveCmd.Flags().StringVarP(&serveBind, "bind", "b", "", "Bind address (overrides config)")
	serveCmd.Flags().StringVarP(&serveToken, "token", "t", "", "Signature token (overrides config)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(serveCmd)
}

// runServe runs the gateway server
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with flags
	if servePort != 0 {
		cfg.Gateway.Port = servePort
	}
	if serveBind != "" {
		cfg.Gateway.Host = serveBind
	}
	if serveToken != "" {
		cfg.Weixin.Token = serveToken
	}
	if serveVerbose {
		cfg.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Log.Development,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() // nolint:errcheck

	r, err := newResponder(cfg.Responder)
	if err != nil {
		return err
	}
	server := gateway.NewServer(cfg, r)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gateway...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// 命令行指定的 token 优先，不随配置文件热更新
	if serveToken == "" {
		err := config.Watch(ctx, configPath, func(next *config.Config) {
			server.SetToken(next.Weixin.Token)
			logger.Info("Signature token rotated", zap.String("token", config.MaskSecret(next.Weixin.Token)))
		})
		switch {
		case errors.Is(err, config.ErrNoConfigFile):
			logger.Debug("No config file, hot reload disabled")
		case err != nil:
			logger.Warn("Failed to watch config", zap.Error(err))
		}
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Gateway listening on %s\n", server.Addr())
	fmt.Fprintf(out, "Webhook: http://%s%s\n", server.Addr(), cfg.Weixin.Path)
	fmt.Fprintf(out, "Health: http://%s/health\n", server.Addr())
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop gateway", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "Gateway stopped")
	return nil
}

// newResponder 按配置选择应答策略
func newResponder(cfg config.ResponderConfig) (responder.Responder, error) {
	switch cfg.Mode {
	case "", "echo":
		return responder.NewEcho(cfg.LinkPicURL), nil
	case "silent":
		return responder.Silent, nil
	default:
		return nil, fmt.Errorf("unknown responder mode %q", cfg.Mode)
	}
}
