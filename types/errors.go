package types

import (
	"context"
	"errors"
	"net/http"

	"github.com/smallnest/wxhook/weixin"
)

// ErrorReason 错误原因类型
type ErrorReason string

const (
	// ErrorReasonSignature 签名校验失败
	ErrorReasonSignature ErrorReason = "signature_invalid"
	// ErrorReasonMalformed 请求体不是合法 XML
	ErrorReasonMalformed ErrorReason = "malformed_payload"
	// ErrorReasonUnsupportedMessage 不支持的消息类型
	ErrorReasonUnsupportedMessage ErrorReason = "unsupported_message_type"
	// ErrorReasonMissingField 缺少必需字段
	ErrorReasonMissingField ErrorReason = "missing_field"
	// ErrorReasonUnsupportedReply 不支持的回复类型
	ErrorReasonUnsupportedReply ErrorReason = "unsupported_reply_type"
	// ErrorReasonTooManyArticles 图文数量超限
	ErrorReasonTooManyArticles ErrorReason = "too_many_articles"
	// ErrorReasonTimeout 超时或取消
	ErrorReasonTimeout ErrorReason = "timeout"
	// ErrorReasonUnknown 未知错误
	ErrorReasonUnknown ErrorReason = "unknown"
)

// ErrorClassifier 错误分类器接口
type ErrorClassifier interface {
	ClassifyError(err error) ErrorReason
	IsClientError(err error) bool
}

// SimpleErrorClassifier 基于 errors.Is 的错误分类器
type SimpleErrorClassifier struct {
	rules []classifyRule
}

type classifyRule struct {
	target error
	reason ErrorReason
}

// NewSimpleErrorClassifier 创建简单错误分类器
func NewSimpleErrorClassifier() *SimpleErrorClassifier {
	return &SimpleErrorClassifier{
		// 按顺序匹配，先命中者生效
		rules: []classifyRule{
			{weixin.ErrSignatureInvalid, ErrorReasonSignature},
			{weixin.ErrMalformedPayload, ErrorReasonMalformed},
			{weixin.ErrUnsupportedMessageType, ErrorReasonUnsupportedMessage},
			{weixin.ErrMissingField, ErrorReasonMissingField},
			{weixin.ErrTooManyArticles, ErrorReasonTooManyArticles},
			{weixin.ErrUnsupportedReplyType, ErrorReasonUnsupportedReply},
			{context.DeadlineExceeded, ErrorReasonTimeout},
			{context.Canceled, ErrorReasonTimeout},
		},
	}
}

// ClassifyError 分类错误
func (c *SimpleErrorClassifier) ClassifyError(err error) ErrorReason {
	if err == nil {
		return ErrorReasonUnknown
	}
	for _, rule := range c.rules {
		if errors.Is(err, rule.target) {
			return rule.reason
		}
	}
	return ErrorReasonUnknown
}

// IsClientError 检查是否由请求方引起（签名或消息体问题）
func (c *SimpleErrorClassifier) IsClientError(err error) bool {
	if err == nil {
		return false
	}
	switch c.ClassifyError(err) {
	case ErrorReasonSignature, ErrorReasonMalformed, ErrorReasonUnsupportedMessage, ErrorReasonMissingField:
		return true
	}
	return false
}

// HTTPStatus 将错误原因映射为 HTTP 状态码
func HTTPStatus(reason ErrorReason) int {
	switch reason {
	case ErrorReasonSignature:
		return http.StatusUnauthorized
	case ErrorReasonMalformed, ErrorReasonUnsupportedMessage, ErrorReasonMissingField:
		return http.StatusBadRequest
	case ErrorReasonTimeout:
		return http.StatusGatewayTimeout
	default:
		// 编码失败说明调用方构造了非法回复
		return http.StatusInternalServerError
	}
}
