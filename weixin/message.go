package weixin

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageKind 入站消息类型，对应 MsgType
type MessageKind string

const (
	KindText     MessageKind = "text"
	KindImage    MessageKind = "image"
	KindLocation MessageKind = "location"
	KindLink     MessageKind = "link"
	KindEvent    MessageKind = "event"
)

// EventType 事件类型，对应 Event。平台定义的其他取值原样保留。
type EventType string

const (
	EventSubscribe   EventType = "subscribe"
	EventUnsubscribe EventType = "unsubscribe"
	EventClick       EventType = "CLICK"
)

// IncomingMessage 入站消息。具体类型为 *TextMessage、*ImageMessage、
// *LocationMessage、*LinkMessage 或 *EventMessage 之一。
type IncomingMessage interface {
	Kind() MessageKind
	Base() Header
	incoming()
}

// Header 所有消息共有的字段
type Header struct {
	ToUserName   string
	FromUserName string
	// CreateTime 保留线上原始文本，需要数值时调用 Unix
	CreateTime string
	// MsgID 事件消息没有 MsgId，此时为空
	MsgID string
}

// Base 返回公共字段
func (h Header) Base() Header {
	return h
}

// Unix 将 CreateTime 解析为 unix 秒
func (h Header) Unix() (int64, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(h.CreateTime), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse CreateTime %q: %w", h.CreateTime, err)
	}
	return ts, nil
}

func (Header) incoming() {}

// TextMessage 文本消息
type TextMessage struct {
	Header
	Content string
}

// ImageMessage 图片消息
type ImageMessage struct {
	Header
	PicURL string
}

// LocationMessage 地理位置消息
type LocationMessage struct {
	Header
	X     string // Location_X，十进制纬度文本
	Y     string // Location_Y，十进制经度文本
	Scale int
	Label string
}

// LinkMessage 链接消息
type LinkMessage struct {
	Header
	Title       string
	Description string
	URL         string
}

// EventMessage 事件推送
type EventMessage struct {
	Header
	Event    EventType
	EventKey string
}

func (*TextMessage) Kind() MessageKind     { return KindText }
func (*ImageMessage) Kind() MessageKind    { return KindImage }
func (*LocationMessage) Kind() MessageKind { return KindLocation }
func (*LinkMessage) Kind() MessageKind     { return KindLink }
func (*EventMessage) Kind() MessageKind    { return KindEvent }
