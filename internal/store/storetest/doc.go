// Package storetest provides an in-memory bucket store and an in-process TCP
// server speaking the store wire protocol. It exists for tests: the harness
// never runs it in production, where the store under benchmark is external.
//
// Memory implements store.Client directly and counts every call, which lets
// tests assert on how many puts and batches a benchmark pass issued. Server
// exposes a Memory over TCP so the real store.TCPClient can be exercised end
// to end.
//
//	mem := storetest.NewMemory()
//	srv := storetest.NewServer(mem)
//	if err := srv.Start("127.0.0.1:0"); err != nil { ... }
//	defer srv.Close()
//	c, _ := store.Dial(ctx, srv.Addr())
//
// Faults can be injected with FailOn and latency with SetDelay.
package storetest
