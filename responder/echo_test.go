package responder

import (
	"context"
	"testing"

	"github.com/smallnest/wxhook/weixin"
)

func TestEchoRespond(t *testing.T) {
	hdr := weixin.Header{ToUserName: "toUser", FromUserName: "fromUser", CreateTime: "1", MsgID: "1"}

	tests := []struct {
		name string
		msg  weixin.IncomingMessage
		want weixin.OutgoingReply
	}{
		{
			name: "text",
			msg:  &weixin.TextMessage{Header: hdr, Content: "hello"},
			want: &weixin.TextReply{Content: "你发送的内容为：hello"},
		},
		{
			name: "image",
			msg:  &weixin.ImageMessage{Header: hdr, PicURL: "http://example.com/a.jpg"},
			want: &weixin.TextReply{Content: "你发送的图片为：http://example.com/a.jpg"},
		},
		{
			name: "location",
			msg:  &weixin.LocationMessage{Header: hdr, X: "23.134521", Y: "113.358803", Scale: 20, Label: "位置信息"},
			want: &weixin.TextReply{Content: "你发送的地址信息为：lx: 23.134521, ly: 113.358803, Scale: 20, label: 位置信息"},
		},
		{
			name: "link",
			msg:  &weixin.LinkMessage{Header: hdr, Title: "t", Description: "d", URL: "http://example.com"},
			want: &weixin.NewsReply{Articles: []weixin.Article{{
				Title: "t", Description: "d", PicURL: DefaultLinkPicURL, URL: "http://example.com",
			}}},
		},
		{
			name: "subscribe",
			msg:  &weixin.EventMessage{Header: hdr, Event: weixin.EventSubscribe, EventKey: "qrscene_1"},
			want: &weixin.TextReply{Content: "qrscene_1 : 订阅成功"},
		},
		{
			name: "unsubscribe",
			msg:  &weixin.EventMessage{Header: hdr, Event: weixin.EventUnsubscribe},
			want: &weixin.TextReply{Content: " : 取消订阅成功"},
		},
		{
			name: "click",
			msg:  &weixin.EventMessage{Header: hdr, Event: weixin.EventClick, EventKey: "MENU_1"},
			want: &weixin.TextReply{Content: "MENU_1 : 自定义事件"},
		},
	}

	echo := NewEcho("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := echo.Respond(context.Background(), tt.msg)
			if err != nil {
				t.Fatalf("Respond() error = %v", err)
			}
			if got.Kind() != tt.want.Kind() {
				t.Fatalf("Respond() kind = %v, want %v", got.Kind(), tt.want.Kind())
			}
			switch want := tt.want.(type) {
			case *weixin.TextReply:
				if got.(*weixin.TextReply).Content != want.Content {
					t.Errorf("Respond() content = %q, want %q", got.(*weixin.TextReply).Content, want.Content)
				}
			case *weixin.NewsReply:
				articles := got.(*weixin.NewsReply).Articles
				if len(articles) != 1 || articles[0] != want.Articles[0] {
					t.Errorf("Respond() articles = %+v, want %+v", articles, want.Articles)
				}
			}
		})
	}
}

func TestEchoUnknownEventHasNoReply(t *testing.T) {
	got, err := NewEcho("").Respond(context.Background(), &weixin.EventMessage{Event: "VIEW"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expected no reply for VIEW event, got %+v", got)
	}
}

func TestEchoLinkPicOverride(t *testing.T) {
	got, err := NewEcho("http://example.com/cover.png").Respond(context.Background(), &weixin.LinkMessage{URL: "u"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if pic := got.(*weixin.NewsReply).Articles[0].PicURL; pic != "http://example.com/cover.png" {
		t.Fatalf("expected overridden cover, got %q", pic)
	}
}

func TestSilent(t *testing.T) {
	got, err := Silent.Respond(context.Background(), &weixin.TextMessage{})
	if err != nil || got != nil {
		t.Fatalf("Silent.Respond() = %v, %v; want nil, nil", got, err)
	}
}
