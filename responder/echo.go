package responder

import (
	"context"
	"fmt"

	"github.com/smallnest/wxhook/weixin"
)

// DefaultLinkPicURL 链接消息回显为图文时使用的默认封面
const DefaultLinkPicURL = "http://avatar.profile.csdn.net/3/5/5/2_inosin.jpg"

// Echo 把收到的内容原样描述回去
type Echo struct {
	// LinkPicURL 链接回显图文的封面，为空时使用 DefaultLinkPicURL
	LinkPicURL string
}

// NewEcho 创建回显应答器
func NewEcho(linkPicURL string) *Echo {
	return &Echo{LinkPicURL: linkPicURL}
}

// Respond 实现 Responder
func (e *Echo) Respond(ctx context.Context, msg weixin.IncomingMessage) (weixin.OutgoingReply, error) {
	switch m := msg.(type) {
	case *weixin.TextMessage:
		return &weixin.TextReply{Content: "你发送的内容为：" + m.Content}, nil

	case *weixin.ImageMessage:
		return &weixin.TextReply{Content: "你发送的图片为：" + m.PicURL}, nil

	case *weixin.LocationMessage:
		return &weixin.TextReply{
			Content: fmt.Sprintf("你发送的地址信息为：lx: %s, ly: %s, Scale: %d, label: %s", m.X, m.Y, m.Scale, m.Label),
		}, nil

	case *weixin.LinkMessage:
		pic := e.LinkPicURL
		if pic == "" {
			pic = DefaultLinkPicURL
		}
		return &weixin.NewsReply{Articles: []weixin.Article{{
			Title:       m.Title,
			Description: m.Description,
			PicURL:      pic,
			URL:         m.URL,
		}}}, nil

	case *weixin.EventMessage:
		switch m.Event {
		case weixin.EventSubscribe:
			return &weixin.TextReply{Content: m.EventKey + " : 订阅成功"}, nil
		case weixin.EventUnsubscribe:
			return &weixin.TextReply{Content: m.EventKey + " : 取消订阅成功"}, nil
		case weixin.EventClick:
			return &weixin.TextReply{Content: m.EventKey + " : 自定义事件"}, nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("echo: unexpected message %T", msg)
	}
}
