// Package bench times write passes against the store.
//
// A Runner owns the write side of a store client together with the target
// bucket and per-call options. Each pass consumes a serialized corpus and
// writes it with one Strategy:
//
//   - Sequential issues one PutObject per entry.
//   - Batched accumulates put requests and executes a Batch whenever the
//     pending list reaches Threshold. Entries left over after the last full
//     batch are dropped unless FlushRemainder is set.
//
// Any store failure aborts the pass and is returned to the caller; a failed
// pass produces no PassResult.
//
// # Basic Usage
//
//	r := bench.New(client, bench.DefaultConfig())
//	res, err := r.Run(ctx, bench.Batched{Threshold: 50}, 2, values)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Elapsed, res.Batches, res.Dropped)
package bench
