package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/smallnest/wxhook/config"
	"github.com/smallnest/wxhook/internal/logger"
	"github.com/smallnest/wxhook/responder"
	"github.com/smallnest/wxhook/types"
	"github.com/smallnest/wxhook/weixin"
)

// Server 公众号回调 HTTP 服务器
type Server struct {
	config      config.GatewayConfig
	webhookPath string
	maxBody     int64

	verifier   atomic.Pointer[weixin.Verifier]
	responder  responder.Responder
	classifier types.ErrorClassifier
	now        func() time.Time

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	running  bool
	stopCh   chan struct{}
}

// NewServer 创建网关服务器
func NewServer(cfg *config.Config, r responder.Responder) *Server {
	if r == nil {
		r = responder.Silent
	}
	s := &Server{
		config:      cfg.Gateway,
		webhookPath: cfg.Weixin.Path,
		maxBody:     cfg.Weixin.MaxBodyBytes,
		responder:   r,
		classifier:  types.NewSimpleErrorClassifier(),
		now:         time.Now,
	}
	if s.webhookPath == "" {
		s.webhookPath = "/wx"
	}
	if s.maxBody <= 0 {
		s.maxBody = 1 << 20
	}
	s.SetToken(cfg.Weixin.Token)
	return s
}

// SetToken 替换签名 token，正在处理的请求不受影响
func (s *Server) SetToken(token string) {
	s.verifier.Store(weixin.NewVerifier(token))
}

// Handler 返回路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// 健康检查端点
	mux.HandleFunc("/health", s.handleHealth)

	// 公众号回调端点，GET 为地址验证，POST 为消息推送
	mux.HandleFunc(s.webhookPath, s.handleWebhook)

	return mux
}

// Start 启动服务器。端口为 0 时由系统分配，可通过 Addr 获取。
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.running = true
	s.stopCh = make(chan struct{})
	srv := s.server
	stopCh := s.stopCh
	s.mu.Unlock()

	go func() {
		logger.Info("Webhook server started",
			zap.String("addr", ln.Addr().String()),
			zap.String("path", s.webhookPath),
		)

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Webhook server error", zap.Error(err))
		}
	}()

	// 监听上下文取消，本次启动已停止时退出
	go func() {
		select {
		case <-ctx.Done():
			_ = s.stop(stopCh)
		case <-stopCh:
		}
	}()

	return nil
}

// Stop 停止服务器
func (s *Server) Stop() error {
	return s.stop(nil)
}

// stop 停止服务器。only 非空时仅当它属于当前这次启动才生效。
func (s *Server) stop(only chan struct{}) error {
	s.mu.Lock()
	if !s.running || (only != nil && only != s.stopCh) {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	srv := s.server
	s.mu.Unlock()

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown webhook server", zap.Error(err))
		return err
	}

	logger.Info("Webhook server stopped")
	return nil
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning 检查是否运行中
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// handleHealth 健康检查处理器
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"time":   s.now().Unix(),
	})
}
