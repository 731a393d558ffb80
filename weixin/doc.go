// Package weixin implements the wire side of the WeChat official-account
// webhook: request signature checks, decoding of pushed XML messages into
// typed values, and encoding of passive replies.
//
// All functions are pure and safe for concurrent use.
package weixin
