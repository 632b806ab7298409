// Package discovery locates a store shard endpoint through DNS.
//
// A Locator builds an SRV query name from service, protocol, and domain labels,
// picks one candidate uniformly at random, and resolves the candidate's target
// to an IP address. Priority and weight are ignored: every candidate is an
// equally valid benchmark target.
//
// # Basic Usage
//
//	loc := discovery.NewLocator(net.DefaultResolver, rand.New(rand.NewSource(1)))
//	ep, err := loc.Locate(ctx, "_moray", "_tcp", "1.moray.example.com")
//	if err != nil {
//	    var derr *discovery.Error
//	    if errors.As(err, &derr) { ... }
//	}
//	fmt.Println(ep) // 10.0.0.5:2020
//
// Nothing is cached. Every call performs fresh lookups.
package discovery
