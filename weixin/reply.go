package weixin

// ReplyKind 被动回复类型
type ReplyKind string

const (
	ReplyText  ReplyKind = "text"
	ReplyMusic ReplyKind = "music"
	ReplyNews  ReplyKind = "news"
)

// MaxArticles 单条图文回复允许的最大文章数
const MaxArticles = 10

// OutgoingReply 被动回复。具体类型为 *TextReply、*MusicReply 或 *NewsReply 之一。
// 收发双方的用户名不属于回复内容，由编码时传入。
type OutgoingReply interface {
	Kind() ReplyKind
	outgoing()
}

// TextReply 文本回复
type TextReply struct {
	Content string
}

// MusicReply 音乐回复
type MusicReply struct {
	Title       string
	Description string
	MusicURL    string
	HQMusicURL  string
}

// Article 图文回复中的单篇文章
type Article struct {
	Title       string
	Description string
	PicURL      string
	URL         string
}

// NewsReply 图文回复，文章按顺序输出
type NewsReply struct {
	Articles []Article
}

func (*TextReply) Kind() ReplyKind  { return ReplyText }
func (*MusicReply) Kind() ReplyKind { return ReplyMusic }
func (*NewsReply) Kind() ReplyKind  { return ReplyNews }

func (*TextReply) outgoing()  {}
func (*MusicReply) outgoing() {}
func (*NewsReply) outgoing()  {}
