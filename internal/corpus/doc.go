// Package corpus generates and mutates the synthetic objects written by the
// benchmark.
//
// Objects model Manta object metadata: identifiers, ownership, content
// attributes, and a list of placement descriptors ("sharks") recording the
// datacenter and storage node holding each copy.
//
// A Generator builds a Corpus keyed by object id. A Mutator derives a
// serialized copy of a Corpus in which every object has been "moved": the
// last placement is dropped and a new one, shared by the whole pass, is
// appended. The input Corpus is never modified, so one baseline can feed many
// passes.
//
// Both take an explicit *rand.Rand so runs can be reproduced from a seed.
package corpus
