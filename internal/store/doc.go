// Package store is the client side of the bucket/object key-value store
// under benchmark.
//
// Client is the black-box contract the harness writes through: bucket lookup
// and creation, single object puts, and batched puts. TCPClient implements it
// over a plaintext TCP connection using length-prefixed msgpack frames.
// Factory turns a shard number and base domain into a connected client by way
// of DNS service discovery.
//
// # Basic Usage
//
//	loc := discovery.NewLocator(net.DefaultResolver, rng)
//	c, err := store.NewShardClient(ctx, loc, 1, "perf2.scloud.host")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	_, err = c.PutObject(ctx, "bucket", "key", store.Value{"a": 1}, store.MethodOptions{})
//
// # Concurrency
//
// A TCPClient owns a single connection and issues one call at a time. It is
// not safe for concurrent use.
package store
