//go:build !release

package log

const debugEnabled = true
