package weixin

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Sign 计算签名：token、timestamp、nonce 字典序排序后拼接，取 SHA-1 小写十六进制
func Sign(token, timestamp, nonce string) string {
	strs := []string{token, timestamp, nonce}
	sort.Strings(strs)

	h := sha1.New()
	h.Write([]byte(strings.Join(strs, "")))
	return hex.EncodeToString(h.Sum(nil))
}

// IsValid 校验签名。任一参数为空或摘要不一致时返回 false，不会 panic。
func IsValid(token, timestamp, nonce, signature string) bool {
	if token == "" || timestamp == "" || nonce == "" || signature == "" {
		return false
	}
	expected := Sign(token, timestamp, nonce)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Query 回调请求的 URL 查询参数
type Query struct {
	Signature string
	Timestamp string
	Nonce     string
	Echostr   string // 仅 GET 验证时使用
}

// ParseQuery 从 URL 查询参数中提取签名相关字段
func ParseQuery(values url.Values) Query {
	return Query{
		Signature: values.Get("signature"),
		Timestamp: values.Get("timestamp"),
		Nonce:     values.Get("nonce"),
		Echostr:   values.Get("echostr"),
	}
}

// Verifier 持有共享 token 的签名校验器，创建后只读
type Verifier struct {
	token string
}

// NewVerifier 创建签名校验器
func NewVerifier(token string) *Verifier {
	return &Verifier{token: token}
}

// Verify 校验请求签名
func (v *Verifier) Verify(q Query) bool {
	if v == nil {
		return false
	}
	return IsValid(v.token, q.Timestamp, q.Nonce, q.Signature)
}

// Handshake 处理服务器地址验证，校验通过时返回需要原样回显的 echostr
func (v *Verifier) Handshake(q Query) (string, bool) {
	if !v.Verify(q) {
		return "", false
	}
	return q.Echostr, true
}
