package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/xid"
)

// TCPClient はプレーンTCP上でストアと通信するクライアント
type TCPClient struct {
	addr   string
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	nextID uint64
	broken error // 接続が使えなくなった原因
}

// Dial はエンドポイントへ接続してTCPClientを返す（TLS・認証なし）
func Dial(ctx context.Context, addr string) (*TCPClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &Error{Op: "dial", Err: err}
	}
	return &TCPClient{
		addr:   addr,
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}, nil
}

// Addr は接続先アドレスを返す
func (c *TCPClient) Addr() string {
	return c.addr
}

// call はリクエストを送りレスポンスを待つ
func (c *TCPClient) call(ctx context.Context, req *Request) (*Response, error) {
	if c.broken != nil {
		return nil, c.broken
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.nextID++
	req.ID = c.nextID
	if req.Options.ReqID == "" {
		req.Options.ReqID = xid.New().String()
	}

	if err := c.conn.SetDeadline(callDeadline(ctx, req.Options.Timeout)); err != nil {
		return nil, c.fail(err)
	}
	if err := WriteFrame(c.writer, FrameRequest, req); err != nil {
		return nil, c.fail(err)
	}

	var resp Response
	typ, err := ReadFrame(c.reader, &resp)
	if err != nil {
		return nil, c.fail(err)
	}
	if typ != FrameResponse {
		return nil, c.fail(fmt.Errorf("%w: expected response frame, got %d", ErrProtocol, typ))
	}
	if resp.ID != req.ID {
		return nil, c.fail(fmt.Errorf("%w: response id %d does not match request id %d", ErrProtocol, resp.ID, req.ID))
	}
	if resp.Error != "" {
		return &resp, &remoteError{code: resp.Code, message: resp.Error}
	}
	return &resp, nil
}

// fail は接続を使用不能にしてエラーを返す
func (c *TCPClient) fail(err error) error {
	if c.broken == nil {
		c.broken = err
	}
	_ = c.conn.Close()
	return err
}

func callDeadline(ctx context.Context, timeout time.Duration) time.Time {
	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if timeout > 0 {
		if t := time.Now().Add(timeout); deadline.IsZero() || t.Before(deadline) {
			deadline = t
		}
	}
	return deadline
}

// GetBucket はバケットを取得する
func (c *TCPClient) GetBucket(ctx context.Context, name string, opts MethodOptions) (*Bucket, error) {
	resp, err := c.call(ctx, &Request{Method: MethodGetBucket, Bucket: name, Options: opts})
	if err != nil {
		return nil, &Error{Op: MethodGetBucket, Bucket: name, Err: err}
	}
	if resp.Bucket == nil {
		return nil, &Error{Op: MethodGetBucket, Bucket: name, Err: fmt.Errorf("%w: missing bucket in response", ErrProtocol)}
	}
	return resp.Bucket, nil
}

// CreateBucket はバケットを作成する
func (c *TCPClient) CreateBucket(ctx context.Context, name string, schema BucketSchema, opts MethodOptions) error {
	if _, err := c.call(ctx, &Request{Method: MethodCreateBucket, Bucket: name, Schema: &schema, Options: opts}); err != nil {
		return &Error{Op: MethodCreateBucket, Bucket: name, Err: err}
	}
	return nil
}

// PutObject は1件のオブジェクトを書き込む
func (c *TCPClient) PutObject(ctx context.Context, bucket, key string, value Value, opts MethodOptions) (*Record, error) {
	resp, err := c.call(ctx, &Request{Method: MethodPutObject, Bucket: bucket, Key: key, Value: value, Options: opts})
	if err != nil {
		return nil, &Error{Op: MethodPutObject, Bucket: bucket, Key: key, Err: err}
	}
	if len(resp.Records) != 1 {
		return nil, &Error{Op: MethodPutObject, Bucket: bucket, Key: key,
			Err: fmt.Errorf("%w: expected 1 record, got %d", ErrProtocol, len(resp.Records))}
	}
	return &resp.Records[0], nil
}

// Batch は複数の操作を1回のアトミックな呼び出しで実行する
func (c *TCPClient) Batch(ctx context.Context, requests []BatchRequest, opts MethodOptions) ([]Record, error) {
	resp, err := c.call(ctx, &Request{Method: MethodBatch, Batch: requests, Options: opts})
	if err != nil {
		return nil, &Error{Op: MethodBatch, Err: err}
	}
	return resp.Records, nil
}

// Close は接続を閉じる
func (c *TCPClient) Close() error {
	if errors.Is(c.broken, ErrClosed) {
		return nil
	}
	err := c.conn.Close()
	c.broken = &Error{Op: "close", Err: ErrClosed}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
