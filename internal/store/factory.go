package store

import (
	"context"
	"fmt"

	"batch-bench/internal/discovery"
	"batch-bench/internal/logger"
)

// デフォルトのSRVサービスラベル
const (
	DefaultService = "_moray"
	DefaultProto   = "_tcp"
)

// Locator はエンドポイントの発見を定義するインターフェース
type Locator interface {
	Locate(ctx context.Context, service, proto, domain string) (discovery.Endpoint, error)
}

// Ensure discovery.Locator implements Locator
var _ Locator = (*discovery.Locator)(nil)

// ShardDomain はシャード番号とベースドメインから完全修飾名を作る
func ShardDomain(shard int, domain string) string {
	return fmt.Sprintf("%d.moray.%s", shard, domain)
}

// Factory はシャードへの接続済みクライアントを作成する
type Factory struct {
	Locator Locator
	Service string // 空なら DefaultService
	Proto   string // 空なら DefaultProto
}

// Connect はシャードを発見して接続する
func (f Factory) Connect(ctx context.Context, shard int, domain string) (Client, error) {
	c, err := f.connect(ctx, shard, domain)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f Factory) connect(ctx context.Context, shard int, domain string) (*TCPClient, error) {
	service, proto := f.Service, f.Proto
	if service == "" {
		service = DefaultService
	}
	if proto == "" {
		proto = DefaultProto
	}

	name := ShardDomain(shard, domain)
	ep, err := f.Locator.Locate(ctx, service, proto, name)
	if err != nil {
		return nil, err
	}

	c, err := Dial(ctx, ep.String())
	if err != nil {
		return nil, err
	}
	logger.Info("store", "Connected to shard %s at %s", name, ep)
	return c, nil
}

// NewShardClient はデフォルトのサービスラベルでシャードに接続する
func NewShardClient(ctx context.Context, loc Locator, shard int, domain string) (*TCPClient, error) {
	return Factory{Locator: loc}.connect(ctx, shard, domain)
}
