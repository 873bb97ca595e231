// Package ledger is an embedded, append-oriented fixed-record store: a
// single-file, memory-mapped container that holds a homogeneous sequence
// of records of a compile-time-known schema, assigns each record a dense
// monotonic row id, and permits zero-copy read and in-place mutation by
// that id.
//
// It is built for workloads that insert millions of small, uniform rows
// (tens to hundreds of bytes) and later look them up by row id with
// near-memory latency: an append log, a columnar fact table, a
// write-once manifest — not a general-purpose key-value store. There are
// no secondary indexes, no transactions, no concurrent writers, and no
// reclamation of deleted rows.
//
// A record type participates by implementing PageSchema, which fixes its
// on-disk size and hands the engine an encode/decode pair plus a logical
// delete sentinel. The engine never inspects field contents; it only
// ever moves exactly RowSize() bytes, and the canonical Encode/Decode
// implementation is a raw byte copy (see IdentityEncode/IdentityDecode).
//
// Basic usage:
//
//	name := ledger.NewName("Documents")
//	desc := ledger.NewDescription("my files")
//	store, err := ledger.Open[FileManifest]("./data", name, desc, FileManifestSchema{}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	id, err := store.Insert(&FileManifest{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	row, err := store.AccessRow(id)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The store owns its file and memory mapping exclusively for the
// process lifetime of the handle: there is no internal synchronization,
// and concurrent mutation from another process or goroutine is
// undefined.
package ledger
