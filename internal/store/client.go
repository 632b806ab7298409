package store

import "context"

// Client はベンチマーク対象のストアに対する操作を定義するインターフェース
type Client interface {
	GetBucket(ctx context.Context, name string, opts MethodOptions) (*Bucket, error)
	CreateBucket(ctx context.Context, name string, schema BucketSchema, opts MethodOptions) error
	PutObject(ctx context.Context, bucket, key string, value Value, opts MethodOptions) (*Record, error)
	Batch(ctx context.Context, requests []BatchRequest, opts MethodOptions) ([]Record, error)
	Close() error
}

// Ensure TCPClient implements Client
var _ Client = (*TCPClient)(nil)
