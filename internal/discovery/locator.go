package discovery

import (
	"context"
	"math/rand"
	"net"
	"strconv"
	"strings"

	"batch-bench/internal/logger"

	"golang.org/x/net/idna"
)

// Resolver はLocatorが必要とするDNS操作を定義するインターフェース
// *net.Resolver がそのまま満たす
type Resolver interface {
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Ensure net.Resolver implements Resolver
var _ Resolver = (*net.Resolver)(nil)

// Endpoint は解決済みのストアのアドレス
type Endpoint struct {
	IP   net.IP
	Port uint16
}

// String は host:port 形式の文字列を返す
func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP.String(), strconv.Itoa(int(e.Port)))
}

// Locator はSRVレコードからエンドポイントを発見する
type Locator struct {
	resolver Resolver
	rng      *rand.Rand
}

// NewLocator は新しいLocatorを作成する
func NewLocator(resolver Resolver, rng *rand.Rand) *Locator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Locator{
		resolver: resolver,
		rng:      rng,
	}
}

// QueryName はSRVクエリ名を組み立てる
func QueryName(service, proto, domain string) string {
	return service + "." + proto + "." + domain
}

// Locate はサービス名・プロトコル・ドメインから1つのエンドポイントを返す
func (l *Locator) Locate(ctx context.Context, service, proto, domain string) (Endpoint, error) {
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(domain, "."))
	if err != nil || ascii == "" {
		return Endpoint{}, &Error{Kind: ErrInvalidName, Query: QueryName(service, proto, domain), Err: err}
	}
	query := QueryName(service, proto, ascii)

	// service と proto が空なら name がそのまま問い合わせられる
	_, records, err := l.resolver.LookupSRV(ctx, "", "", query)
	if err != nil {
		return Endpoint{}, &Error{Kind: ErrNoCandidates, Query: query, Err: err}
	}
	if len(records) == 0 {
		return Endpoint{}, &Error{Kind: ErrNoCandidates, Query: query}
	}

	srv := records[l.rng.Intn(len(records))]
	logger.Info("discovery", "SRV candidate chosen: target=%s port=%d priority=%d weight=%d (%d candidates)",
		srv.Target, srv.Port, srv.Priority, srv.Weight, len(records))

	target := strings.TrimSuffix(srv.Target, ".")
	addrs, err := l.resolver.LookupIPAddr(ctx, target)
	if err != nil {
		return Endpoint{}, &Error{Kind: ErrUnresolvable, Query: query, Host: target, Err: err}
	}
	if len(addrs) == 0 {
		return Endpoint{}, &Error{Kind: ErrUnresolvable, Query: query, Host: target}
	}

	return Endpoint{IP: addrs[0].IP, Port: srv.Port}, nil
}
