package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"batch-bench/internal/store"

	"github.com/rs/xid"
)

// ErrInjected はFailOnで注入された失敗
var ErrInjected = errors.New("injected failure")

// Stats はメソッドごとの呼び出し回数
type Stats struct {
	GetBucket    uint64
	CreateBucket uint64
	PutObject    uint64
	Batch        uint64
	BatchedPuts  uint64 // バッチ経由で書き込まれたオブジェクト数
}

type bucketData struct {
	bucket  store.Bucket
	objects map[string]store.Value
	etags   map[string]string
}

// Memory はインメモリのバケットストア
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]*bucketData
	delay   time.Duration
	faults  map[string]uint64 // メソッド名 -> 失敗させる呼び出し番号（1始まり）

	getBucket    atomic.Uint64
	createBucket atomic.Uint64
	putObject    atomic.Uint64
	batch        atomic.Uint64
	batchedPuts  atomic.Uint64
}

// Ensure Memory implements store.Client
var _ store.Client = (*Memory)(nil)

// NewMemory は空のストアを作成する
func NewMemory() *Memory {
	return &Memory{
		buckets: make(map[string]*bucketData),
		faults:  make(map[string]uint64),
	}
}

// SetDelay は各呼び出しに加える遅延を設定する
func (m *Memory) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FailOn はメソッドのn回目の呼び出しを失敗させる
func (m *Memory) FailOn(method string, n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[method] = n
}

// Stats は呼び出し回数のスナップショットを返す
func (m *Memory) Stats() Stats {
	return Stats{
		GetBucket:    m.getBucket.Load(),
		CreateBucket: m.createBucket.Load(),
		PutObject:    m.putObject.Load(),
		Batch:        m.batch.Load(),
		BatchedPuts:  m.batchedPuts.Load(),
	}
}

// Len はバケット内のオブジェクト数を返す
func (m *Memory) Len(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.buckets[bucket]; ok {
		return len(b.objects)
	}
	return 0
}

// Get はオブジェクトを返す
func (m *Memory) Get(bucket, key string) (store.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return nil, false
	}
	v, ok := b.objects[key]
	return v, ok
}

// before は遅延と障害注入を適用する
func (m *Memory) before(method string, count uint64) error {
	m.mu.RLock()
	delay := m.delay
	fault := m.faults[method]
	m.mu.RUnlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fault != 0 && fault == count {
		return fmt.Errorf("%s call %d: %w", method, count, ErrInjected)
	}
	return nil
}

// GetBucket はバケットを取得する
func (m *Memory) GetBucket(_ context.Context, name string, _ store.MethodOptions) (*store.Bucket, error) {
	if err := m.before(store.MethodGetBucket, m.getBucket.Add(1)); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.buckets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, store.ErrBucketNotFound)
	}
	bucket := b.bucket
	return &bucket, nil
}

// CreateBucket はバケットを作成する
func (m *Memory) CreateBucket(_ context.Context, name string, schema store.BucketSchema, _ store.MethodOptions) error {
	if err := m.before(store.MethodCreateBucket, m.createBucket.Add(1)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.buckets[name]; exists {
		return fmt.Errorf("bucket %s already exists", name)
	}
	m.buckets[name] = &bucketData{
		bucket: store.Bucket{
			Name:    name,
			Index:   schema.Index,
			Mtime:   time.Now().UnixMilli(),
			Version: 1,
		},
		objects: make(map[string]store.Value),
		etags:   make(map[string]string),
	}
	return nil
}

// PutObject は1件のオブジェクトを書き込む
func (m *Memory) PutObject(_ context.Context, bucket, key string, value store.Value, opts store.MethodOptions) (*store.Record, error) {
	if err := m.before(store.MethodPutObject, m.putObject.Add(1)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.checkPut(bucket, key, opts)
	if err != nil {
		return nil, err
	}
	rec := m.apply(b, key, value)
	return &rec, nil
}

// Batch は全ての操作を検証してから一括で適用する
func (m *Memory) Batch(_ context.Context, requests []store.BatchRequest, _ store.MethodOptions) ([]store.Record, error) {
	if err := m.before(store.MethodBatch, m.batch.Add(1)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	targets := make([]*bucketData, len(requests))
	for i, req := range requests {
		if req.Op != store.BatchOpPut {
			return nil, fmt.Errorf("request %d: unsupported operation %q", i, req.Op)
		}
		b, err := m.checkPut(req.Bucket, req.Key, req.Options)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		targets[i] = b
	}

	records := make([]store.Record, len(requests))
	for i, req := range requests {
		records[i] = m.apply(targets[i], req.Key, req.Value)
	}
	m.batchedPuts.Add(uint64(len(requests)))
	return records, nil
}

// Close は何もしない
func (m *Memory) Close() error {
	return nil
}

// checkPut は書き込み可能か検証する（ロック保持中に呼ぶ）
func (m *Memory) checkPut(bucket, key string, opts store.MethodOptions) (*bucketData, error) {
	b, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%s: %w", bucket, store.ErrBucketNotFound)
	}
	if key == "" {
		return nil, errors.New("key must not be empty")
	}
	if opts.Etag != "" && b.etags[key] != opts.Etag {
		return nil, fmt.Errorf("etag conflict for %s: have %q, want %q", key, b.etags[key], opts.Etag)
	}
	return b, nil
}

// apply はオブジェクトを格納する（ロック保持中に呼ぶ）
func (m *Memory) apply(b *bucketData, key string, value store.Value) store.Record {
	etag := xid.New().String()
	b.objects[key] = value
	b.etags[key] = etag
	return store.Record{
		Bucket: b.bucket.Name,
		Key:    key,
		Etag:   etag,
		Mtime:  time.Now().UnixMilli(),
	}
}

// Handle はワイヤリクエストを処理してレスポンスを返す
func (m *Memory) Handle(ctx context.Context, req *store.Request) *store.Response {
	resp := &store.Response{ID: req.ID}

	var err error
	switch req.Method {
	case store.MethodGetBucket:
		resp.Bucket, err = m.GetBucket(ctx, req.Bucket, req.Options)
	case store.MethodCreateBucket:
		schema := store.BucketSchema{}
		if req.Schema != nil {
			schema = *req.Schema
		}
		err = m.CreateBucket(ctx, req.Bucket, schema, req.Options)
	case store.MethodPutObject:
		var rec *store.Record
		rec, err = m.PutObject(ctx, req.Bucket, req.Key, req.Value, req.Options)
		if rec != nil {
			resp.Records = []store.Record{*rec}
		}
	case store.MethodBatch:
		resp.Records, err = m.Batch(ctx, req.Batch, req.Options)
	default:
		err = fmt.Errorf("unknown method %q", req.Method)
	}

	if err != nil {
		resp.Error = err.Error()
		if errors.Is(err, store.ErrBucketNotFound) {
			resp.Code = store.CodeBucketNotFound
		}
	}
	return resp
}
