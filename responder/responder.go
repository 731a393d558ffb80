package responder

import (
	"context"

	"github.com/smallnest/wxhook/weixin"
)

// Responder 根据入站消息决定被动回复。返回 nil 回复表示不回复。
type Responder interface {
	Respond(ctx context.Context, msg weixin.IncomingMessage) (weixin.OutgoingReply, error)
}

// Func 函数适配器
type Func func(ctx context.Context, msg weixin.IncomingMessage) (weixin.OutgoingReply, error)

// Respond 实现 Responder
func (f Func) Respond(ctx context.Context, msg weixin.IncomingMessage) (weixin.OutgoingReply, error) {
	return f(ctx, msg)
}

// Silent 从不回复
var Silent Responder = Func(func(context.Context, weixin.IncomingMessage) (weixin.OutgoingReply, error) {
	return nil, nil
})
