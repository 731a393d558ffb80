package weixin

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// cdata 以 CDATA 段输出的文本
type cdata string

func (c cdata) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	inner := struct {
		Text string `xml:",innerxml"`
	}{Text: wrapCDATA(string(c))}
	return e.EncodeElement(inner, start)
}

// wrapCDATA 文本中的 "]]>" 会被拆到两个相邻的 CDATA 段里
func wrapCDATA(s string) string {
	s = strings.Map(xmlChar, s)
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// xmlChar 把 XML 1.0 不允许的字符替换为 U+FFFD
func xmlChar(r rune) rune {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D,
		r >= 0x20 && r <= 0xD7FF,
		r >= 0xE000 && r <= 0xFFFD,
		r >= 0x10000 && r <= 0x10FFFF:
		return r
	default:
		return utf8.RuneError
	}
}

type replyEnvelope struct {
	XMLName      xml.Name      `xml:"xml"`
	ToUserName   cdata         `xml:"ToUserName"`
	FromUserName cdata         `xml:"FromUserName"`
	CreateTime   int64         `xml:"CreateTime"`
	MsgType      cdata         `xml:"MsgType"`
	Content      *cdata        `xml:"Content,omitempty"`
	Music        *musicBody    `xml:"Music,omitempty"`
	ArticleCount *int          `xml:"ArticleCount,omitempty"`
	Articles     *articlesBody `xml:"Articles,omitempty"`
}

type musicBody struct {
	Title       cdata `xml:"Title"`
	Description cdata `xml:"Description"`
	MusicURL    cdata `xml:"MusicUrl"`
	HQMusicURL  cdata `xml:"HQMusicUrl"`
}

type articlesBody struct {
	Items []articleItem `xml:"item"`
}

type articleItem struct {
	Title       cdata `xml:"Title"`
	Description cdata `xml:"Description"`
	PicURL      cdata `xml:"PicUrl"`
	URL         cdata `xml:"Url"`
}

// Encode 将回复编码为平台要求的 XML。文本字段一律使用 CDATA，
// CreateTime 与 ArticleCount 输出为裸整数。失败时返回 *EncodeError 且不返回任何字节。
func Encode(reply OutgoingReply, toUser, fromUser string, now int64) ([]byte, error) {
	env := replyEnvelope{
		ToUserName:   cdata(toUser),
		FromUserName: cdata(fromUser),
		CreateTime:   now,
	}

	switch r := reply.(type) {
	case *TextReply:
		if r == nil {
			return nil, &EncodeError{Kind: string(ReplyText), Err: ErrUnsupportedReplyType}
		}
		content := cdata(r.Content)
		env.Content = &content

	case *MusicReply:
		if r == nil {
			return nil, &EncodeError{Kind: string(ReplyMusic), Err: ErrUnsupportedReplyType}
		}
		env.Music = &musicBody{
			Title:       cdata(r.Title),
			Description: cdata(r.Description),
			MusicURL:    cdata(r.MusicURL),
			HQMusicURL:  cdata(r.HQMusicURL),
		}

	case *NewsReply:
		if r == nil {
			return nil, &EncodeError{Kind: string(ReplyNews), Err: ErrUnsupportedReplyType}
		}
		if len(r.Articles) > MaxArticles {
			return nil, &EncodeError{
				Kind: string(ReplyNews),
				Err:  fmt.Errorf("%w: %d > %d", ErrTooManyArticles, len(r.Articles), MaxArticles),
			}
		}
		count := len(r.Articles)
		items := make([]articleItem, 0, count)
		for _, a := range r.Articles {
			items = append(items, articleItem{
				Title:       cdata(a.Title),
				Description: cdata(a.Description),
				PicURL:      cdata(a.PicURL),
				URL:         cdata(a.URL),
			})
		}
		env.ArticleCount = &count
		env.Articles = &articlesBody{Items: items}

	default:
		return nil, &EncodeError{Err: fmt.Errorf("%w: %T", ErrUnsupportedReplyType, reply)}
	}
	env.MsgType = cdata(reply.Kind())

	data, err := xml.Marshal(env)
	if err != nil {
		return nil, &EncodeError{Kind: string(reply.Kind()), Err: err}
	}
	return data, nil
}

// EncodeNow 使用当前时间作为 CreateTime 编码回复
func EncodeNow(reply OutgoingReply, toUser, fromUser string) ([]byte, error) {
	return Encode(reply, toUser, fromUser, time.Now().Unix())
}

// ReplyTo 回复一条入站消息：回复的 ToUserName 为原消息的发送方，FromUserName 为原消息的接收方
func ReplyTo(msg IncomingMessage, reply OutgoingReply, now int64) ([]byte, error) {
	if msg == nil {
		return nil, &EncodeError{Err: fmt.Errorf("%w: nil message", ErrUnsupportedReplyType)}
	}
	hdr := msg.Base()
	return Encode(reply, hdr.FromUserName, hdr.ToUserName, now)
}
