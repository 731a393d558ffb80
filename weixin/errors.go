package weixin

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureInvalid 签名校验失败（IsValid 只返回 bool，此错误供调用方记录与分类）
	ErrSignatureInvalid = errors.New("invalid signature")
	// ErrMalformedPayload 请求体不是合法的 XML
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnsupportedMessageType 不支持的 MsgType
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	// ErrMissingField 缺少当前消息类型必需的元素
	ErrMissingField = errors.New("missing field")
	// ErrUnsupportedReplyType 不支持的回复类型
	ErrUnsupportedReplyType = errors.New("unsupported reply type")
	// ErrTooManyArticles 图文回复超过平台上限
	ErrTooManyArticles = errors.New("too many articles")
)

// DecodeError 解码错误
type DecodeError struct {
	Kind  string // MsgType，解析前失败时为空
	Field string // 缺失或非法的元素名
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "" && e.Kind != "":
		return fmt.Sprintf("decode %s message: %s: %v", e.Kind, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode message: %s: %v", e.Field, e.Err)
	case e.Kind != "":
		return fmt.Sprintf("decode message: %v %q", e.Err, e.Kind)
	default:
		return fmt.Sprintf("decode message: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError 编码错误
type EncodeError struct {
	Kind string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("encode reply: %v", e.Err)
	}
	return fmt.Sprintf("encode %s reply: %v", e.Kind, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func missing(kind, field string) error {
	return &DecodeError{Kind: kind, Field: field, Err: ErrMissingField}
}
