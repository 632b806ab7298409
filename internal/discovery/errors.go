package discovery

import (
	"errors"
	"fmt"
)

// 発見失敗の種類
var (
	ErrNoCandidates = errors.New("no SRV candidates")
	ErrUnresolvable = errors.New("unresolvable host")
	ErrInvalidName  = errors.New("invalid domain name")
)

// Error はサービス発見の失敗を表す
type Error struct {
	Kind  error  // ErrNoCandidates, ErrUnresolvable, ErrInvalidName
	Query string // SRVクエリ名
	Host  string // 解決しようとしたホスト（ErrUnresolvableのみ）
	Err   error  // 下位のリゾルバエラー（あれば）
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("discovery %s: %v", e.Query, e.Kind)
	if e.Host != "" {
		msg += fmt.Sprintf(" (host %s)", e.Host)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap は errors.Is で種類と下位エラーの両方を判定できるようにする
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
