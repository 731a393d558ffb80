package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smallnest/wxhook/internal/logger"
	"github.com/smallnest/wxhook/types"
	"github.com/smallnest/wxhook/weixin"
)

// handleWebhook 公众号回调处理器
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("method", r.Method),
	)
	query := weixin.ParseQuery(r.URL.Query())
	verifier := s.verifier.Load()

	switch r.Method {
	case http.MethodGet:
		// 验证服务器地址
		echo, ok := verifier.Handshake(query)
		if !ok {
			s.fail(w, log, fmt.Errorf("url verification: %w", weixin.ErrSignatureInvalid))
			return
		}
		log.Info("URL verification succeeded")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, echo)

	case http.MethodPost:
		s.handleDelivery(w, r, log, verifier, query)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDelivery 校验签名后解码消息、生成并编码被动回复
func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request, log *zap.Logger, verifier *weixin.Verifier, query weixin.Query) {
	if !verifier.Verify(query) {
		s.fail(w, log, fmt.Errorf("message delivery: %w", weixin.ErrSignatureInvalid))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("Request body too large", zap.Int64("limit", tooLarge.Limit))
		} else {
			log.Error("Failed to read body", zap.Error(err))
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg, err := weixin.Decode(body)
	if err != nil {
		s.fail(w, log, err)
		return
	}

	hdr := msg.Base()
	log = log.With(
		zap.String("msg_type", string(msg.Kind())),
		zap.String("msg_id", hdr.MsgID),
		zap.String("from", hdr.FromUserName),
	)
	log.Debug("Message decoded")

	reply, err := s.responder.Respond(r.Context(), msg)
	if err != nil {
		s.fail(w, log, fmt.Errorf("responder: %w", err))
		return
	}
	if reply == nil {
		// 空响应体表示不回复
		w.WriteHeader(http.StatusOK)
		return
	}

	data, err := weixin.ReplyTo(msg, reply, s.now().Unix())
	if err != nil {
		s.fail(w, log, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn("Failed to write reply", zap.Error(err))
		return
	}
	log.Info("Reply sent", zap.String("reply_type", string(reply.Kind())))
}

// fail 按错误分类写出状态码，不写响应体。请求方问题记为 Warn，其余记为 Error。
func (s *Server) fail(w http.ResponseWriter, log *zap.Logger, err error) {
	reason := s.classifier.ClassifyError(err)
	status := types.HTTPStatus(reason)

	fields := []zap.Field{
		zap.String("reason", string(reason)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if s.classifier.IsClientError(err) {
		log.Warn("Webhook request rejected", fields...)
	} else {
		log.Error("Webhook request failed", fields...)
	}
	w.WriteHeader(status)
}
