package weixin

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// envelope 明文消息的全部字段。指针字段用于区分元素缺失与内容为空。
type envelope struct {
	XMLName      xml.Name
	ToUserName   *string `xml:"ToUserName"`
	FromUserName *string `xml:"FromUserName"`
	CreateTime   *string `xml:"CreateTime"`
	MsgType      *string `xml:"MsgType"`
	MsgID        *string `xml:"MsgId"`

	Content *string `xml:"Content"`

	PicURL *string `xml:"PicUrl"`

	LocationX *string `xml:"Location_X"`
	LocationY *string `xml:"Location_Y"`
	Scale     *string `xml:"Scale"`
	Label     *string `xml:"Label"`

	Title       *string `xml:"Title"`
	Description *string `xml:"Description"`
	URL         *string `xml:"Url"`

	Event    *string `xml:"Event"`
	EventKey *string `xml:"EventKey"`
}

// Decode 解析平台推送的 XML 消息。CDATA 与普通文本等价处理。
// 失败时返回 *DecodeError，不会返回部分填充的消息。
func Decode(data []byte) (IncomingMessage, error) {
	var env envelope
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&env); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrMalformedPayload, err)}
	}
	if err := expectEOF(dec); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrMalformedPayload, err)}
	}

	if env.MsgType == nil {
		return nil, missing("", "MsgType")
	}
	kind := MessageKind(*env.MsgType)

	switch kind {
	case KindText, KindImage, KindLocation, KindLink, KindEvent:
	default:
		return nil, &DecodeError{Kind: string(kind), Err: ErrUnsupportedMessageType}
	}

	hdr, err := env.header(kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindText:
		if env.Content == nil {
			return nil, missing(string(kind), "Content")
		}
		return &TextMessage{Header: hdr, Content: *env.Content}, nil

	case KindImage:
		if env.PicURL == nil {
			return nil, missing(string(kind), "PicUrl")
		}
		return &ImageMessage{Header: hdr, PicURL: *env.PicURL}, nil

	case KindLocation:
		if err := env.require(kind, fieldRef{"Location_X", env.LocationX}, fieldRef{"Location_Y", env.LocationY},
			fieldRef{"Scale", env.Scale}, fieldRef{"Label", env.Label}); err != nil {
			return nil, err
		}
		scale, err := strconv.Atoi(strings.TrimSpace(*env.Scale))
		if err != nil {
			return nil, &DecodeError{Kind: string(kind), Field: "Scale", Err: fmt.Errorf("%w: %w", ErrMalformedPayload, err)}
		}
		return &LocationMessage{
			Header: hdr,
			X:      strings.TrimSpace(*env.LocationX),
			Y:      strings.TrimSpace(*env.LocationY),
			Scale:  scale,
			Label:  *env.Label,
		}, nil

	case KindLink:
		if err := env.require(kind, fieldRef{"Title", env.Title}, fieldRef{"Description", env.Description},
			fieldRef{"Url", env.URL}); err != nil {
			return nil, err
		}
		return &LinkMessage{
			Header:      hdr,
			Title:       *env.Title,
			Description: *env.Description,
			URL:         *env.URL,
		}, nil

	default: // KindEvent
		if env.Event == nil {
			return nil, missing(string(kind), "Event")
		}
		msg := &EventMessage{Header: hdr, Event: EventType(*env.Event)}
		// 关注/取消关注事件不带 EventKey
		if env.EventKey != nil {
			msg.EventKey = *env.EventKey
		}
		return msg, nil
	}
}

type fieldRef struct {
	name  string
	value *string
}

func (e *envelope) require(kind MessageKind, fields ...fieldRef) error {
	for _, f := range fields {
		if f.value == nil {
			return missing(string(kind), f.name)
		}
	}
	return nil
}

func (e *envelope) header(kind MessageKind) (Header, error) {
	fields := []fieldRef{
		{"ToUserName", e.ToUserName},
		{"FromUserName", e.FromUserName},
		{"CreateTime", e.CreateTime},
	}
	if kind != KindEvent {
		fields = append(fields, fieldRef{"MsgId", e.MsgID})
	}
	if err := e.require(kind, fields...); err != nil {
		return Header{}, err
	}

	hdr := Header{
		ToUserName:   *e.ToUserName,
		FromUserName: *e.FromUserName,
		CreateTime:   strings.TrimSpace(*e.CreateTime),
	}
	if e.MsgID != nil {
		hdr.MsgID = strings.TrimSpace(*e.MsgID)
	}
	return hdr, nil
}

// expectEOF 确认根元素之后只剩空白、注释或处理指令
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("unexpected content after root element")
			}
		case xml.Comment, xml.ProcInst:
		default:
			return errors.New("unexpected content after root element")
		}
	}
}
