package store

import (
	"errors"
	"fmt"
)

var (
	// ErrBucketNotFound はバケットが存在しないことを表す
	ErrBucketNotFound = errors.New("bucket not found")
	// ErrProtocol はワイヤプロトコル違反を表す
	ErrProtocol = errors.New("protocol error")
	// ErrClosed はクローズ済みのクライアントへの呼び出しを表す
	ErrClosed = errors.New("client closed")
)

// Error はストア操作の失敗を表す
type Error struct {
	Op     string // getBucket, createBucket, putObject, batch, dial
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("store %s %s: %v", e.Op, e.Bucket, e.Err)
	default:
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// remoteError はサーバーが返したエラー
type remoteError struct {
	code    string
	message string
}

func (e *remoteError) Error() string {
	if e.code == "" {
		return e.message
	}
	return e.code + ": " + e.message
}

func (e *remoteError) Is(target error) bool {
	return target == ErrBucketNotFound && e.code == CodeBucketNotFound
}
