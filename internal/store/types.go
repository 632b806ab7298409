package store

import "time"

// Value はストアに書き込む汎用レコード
type Value = map[string]any

// MethodOptions は各RPC呼び出しのオプション
type MethodOptions struct {
	ReqID   string        `msgpack:"req_id,omitempty" json:"req_id,omitempty"` // 空なら自動採番
	Etag    string        `msgpack:"etag,omitempty" json:"etag,omitempty"`     // 条件付き書き込み
	Timeout time.Duration `msgpack:"-" json:"-"`                               // 0でタイムアウトなし
}

// IndexField はバケットのインデックス付きフィールド定義
type IndexField struct {
	Type   string `msgpack:"type" json:"type" yaml:"type"`
	Unique bool   `msgpack:"unique,omitempty" json:"unique,omitempty" yaml:"unique,omitempty"`
}

// BucketSchema はバケットの静的な設定
type BucketSchema struct {
	Index map[string]IndexField `msgpack:"index" json:"index" yaml:"index"`
}

// DefaultSchema はManta形式のオブジェクトメタデータ用のスキーマを返す
func DefaultSchema() BucketSchema {
	return BucketSchema{
		Index: map[string]IndexField{
			"dirname":  {Type: "string"},
			"name":     {Type: "string"},
			"owner":    {Type: "string"},
			"objectId": {Type: "string"},
			"type":     {Type: "string"},
		},
	}
}

// Bucket はストア上のバケット
type Bucket struct {
	Name    string                `msgpack:"name" json:"name"`
	Index   map[string]IndexField `msgpack:"index" json:"index"`
	Mtime   int64                 `msgpack:"mtime" json:"mtime"`
	Version int                   `msgpack:"version" json:"version"`
}

// BatchOp はバッチ内の操作種別
type BatchOp string

const (
	BatchOpPut BatchOp = "put"
)

// BatchRequest はバッチに積まれた1件の保留中の書き込み
type BatchRequest struct {
	Op      BatchOp       `msgpack:"operation" json:"operation"`
	Bucket  string        `msgpack:"bucket" json:"bucket"`
	Key     string        `msgpack:"key" json:"key"`
	Value   Value         `msgpack:"value" json:"value"`
	Options MethodOptions `msgpack:"options" json:"options"`
}

// NewPut は put 操作のBatchRequestを作成する
func NewPut(bucket, key string, value Value, opts MethodOptions) BatchRequest {
	return BatchRequest{
		Op:      BatchOpPut,
		Bucket:  bucket,
		Key:     key,
		Value:   value,
		Options: opts,
	}
}

// Record はコミットされたオブジェクトの情報
type Record struct {
	Bucket string `msgpack:"bucket" json:"bucket"`
	Key    string `msgpack:"key" json:"key"`
	Etag   string `msgpack:"etag" json:"etag"`
	Mtime  int64  `msgpack:"mtime" json:"mtime"`
}
