package discovery

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	srvs    map[string][]*net.SRV
	srvErr  error
	addrs   map[string][]net.IPAddr
	queries []string
	hosts   []string
}

func (f *fakeResolver) LookupSRV(_ context.Context, service, proto, name string) (string, []*net.SRV, error) {
	f.queries = append(f.queries, service+"|"+proto+"|"+name)
	if f.srvErr != nil {
		return "", nil, f.srvErr
	}
	return name, f.srvs[name], nil
}

func (f *fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	f.hosts = append(f.hosts, host)
	return f.addrs[host], nil
}

func TestQueryName(t *testing.T) {
	require.Equal(t, "_moray._tcp.1.moray.example.com", QueryName("_moray", "_tcp", "1.moray.example.com"))
}

func TestLocateSingleCandidate(t *testing.T) {
	r := &fakeResolver{
		srvs: map[string][]*net.SRV{
			"_moray._tcp.1.moray.example.com": {{Target: "moray-a.example.com.", Port: 2020}},
		},
		addrs: map[string][]net.IPAddr{
			"moray-a.example.com": {{IP: net.ParseIP("10.0.0.5")}, {IP: net.ParseIP("10.0.0.6")}},
		},
	}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	ep, err := loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.example.com")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5:2020", ep.String(), "first address is used")
	require.Equal(t, []string{"||_moray._tcp.1.moray.example.com"}, r.queries)
	require.Equal(t, []string{"moray-a.example.com"}, r.hosts)
}

func TestLocateRandomCandidate(t *testing.T) {
	r := &fakeResolver{
		srvs: map[string][]*net.SRV{
			"_moray._tcp.1.moray.example.com": {
				{Target: "a.example.com", Port: 1, Priority: 0},
				{Target: "b.example.com", Port: 2, Priority: 10},
				{Target: "c.example.com", Port: 3, Priority: 20},
			},
		},
		addrs: map[string][]net.IPAddr{
			"a.example.com": {{IP: net.ParseIP("10.0.0.1")}},
			"b.example.com": {{IP: net.ParseIP("10.0.0.2")}},
			"c.example.com": {{IP: net.ParseIP("10.0.0.3")}},
		},
	}
	loc := NewLocator(r, rand.New(rand.NewSource(42)))

	seen := make(map[uint16]int)
	for j := 0; j < 300; j++ {
		ep, err := loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.example.com")
		require.NoError(t, err)
		seen[ep.Port]++
	}

	// 優先度に関係なく全候補が選ばれる
	require.Len(t, seen, 3)
	for port, n := range seen {
		require.Greater(t, n, 50, "port %d chosen too rarely", port)
	}
}

func TestLocateNoCandidates(t *testing.T) {
	r := &fakeResolver{srvs: map[string][]*net.SRV{}}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	_, err := loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.example.com")
	require.Error(t, err)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	require.ErrorIs(t, err, ErrNoCandidates)
	require.Equal(t, "_moray._tcp.1.moray.example.com", derr.Query)
	require.Empty(t, r.hosts, "no address lookup without a candidate")
}

func TestLocateLookupError(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "_moray._tcp.1.moray.example.com", IsNotFound: true}
	r := &fakeResolver{srvErr: dnsErr}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	_, err := loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.example.com")
	require.ErrorIs(t, err, ErrNoCandidates)

	var netErr *net.DNSError
	require.True(t, errors.As(err, &netErr))
}

func TestLocateUnresolvableHost(t *testing.T) {
	r := &fakeResolver{
		srvs: map[string][]*net.SRV{
			"_moray._tcp.1.moray.example.com": {{Target: "gone.example.com", Port: 2020}},
		},
		addrs: map[string][]net.IPAddr{},
	}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	_, err := loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.example.com")
	require.ErrorIs(t, err, ErrUnresolvable)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, "gone.example.com", derr.Host)
}

func TestLocateNormalizesDomain(t *testing.T) {
	r := &fakeResolver{srvs: map[string][]*net.SRV{}}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	_, _ = loc.Locate(context.Background(), "_moray", "_tcp", "1.moray.Example.COM.")
	require.Equal(t, []string{"||_moray._tcp.1.moray.example.com"}, r.queries)
}

func TestLocateInvalidDomain(t *testing.T) {
	r := &fakeResolver{}
	loc := NewLocator(r, rand.New(rand.NewSource(1)))

	_, err := loc.Locate(context.Background(), "_moray", "_tcp", "")
	require.ErrorIs(t, err, ErrInvalidName)
	require.Empty(t, r.queries)
}
