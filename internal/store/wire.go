package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// FrameType はフレームの種類を表す先頭1バイト
type FrameType byte

const (
	FrameRequest  FrameType = 1
	FrameResponse FrameType = 2
)

// MaxFrameSize は1フレームの本体の上限
const MaxFrameSize = 64 << 20

const frameHeaderSize = 5

// RPCメソッド名
const (
	MethodGetBucket    = "getBucket"
	MethodCreateBucket = "createBucket"
	MethodPutObject    = "putObject"
	MethodBatch        = "batch"
)

// CodeBucketNotFound はバケット未存在を表すエラーコード
const CodeBucketNotFound = "BucketNotFoundError"

// Request はクライアントからサーバーへのRPCリクエスト
type Request struct {
	ID      uint64         `msgpack:"id"`
	Method  string         `msgpack:"method"`
	Bucket  string         `msgpack:"bucket,omitempty"`
	Key     string         `msgpack:"key,omitempty"`
	Value   Value          `msgpack:"value,omitempty"`
	Schema  *BucketSchema  `msgpack:"schema,omitempty"`
	Batch   []BatchRequest `msgpack:"requests,omitempty"`
	Options MethodOptions  `msgpack:"options"`
}

// Response はサーバーからのRPCレスポンス
type Response struct {
	ID      uint64   `msgpack:"id"`
	Code    string   `msgpack:"code,omitempty"`
	Error   string   `msgpack:"error,omitempty"`
	Bucket  *Bucket  `msgpack:"bucket,omitempty"`
	Records []Record `msgpack:"records,omitempty"`
}

// WriteFrame は [種類 1バイト][長さ 4バイト BE][msgpack本体] を書き込みフラッシュする
func WriteFrame(w *bufio.Writer, typ FrameType, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if len(data) > MaxFrameSize {
		return fmt.Errorf("%w: frame of %d bytes exceeds limit", ErrProtocol, len(data))
	}

	var header [frameHeaderSize]byte
	header[0] = byte(typ)
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

// ReadFrame は1フレームを読み取り v にデコードする
func ReadFrame(r *bufio.Reader, v any) (FrameType, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, err
	}

	typ := FrameType(header[0])
	if typ != FrameRequest && typ != FrameResponse {
		return 0, fmt.Errorf("%w: unknown frame type %d", ErrProtocol, typ)
	}
	length := binary.BigEndian.Uint32(header[1:])
	if length > MaxFrameSize {
		return 0, fmt.Errorf("%w: frame of %d bytes exceeds limit", ErrProtocol, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, err
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return 0, fmt.Errorf("%w: decode frame: %v", ErrProtocol, err)
	}
	return typ, nil
}
