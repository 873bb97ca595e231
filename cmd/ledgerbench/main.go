// Command ledgerbench drives a simple insert/read-back workload against
// a filemanifest ledger, for eyeballing throughput changes across page
// densities and row counts.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lafskelton/go-ledger"
	"github.com/lafskelton/go-ledger/examples/filemanifest"
)

func main() {
	dir := flag.String("dir", ".", "directory to create the ledger file in")
	name := flag.String("name", "BenchRun", "ledger name (up to 9 bytes)")
	count := flag.Int("count", 100_000, "number of rows to insert")
	rowsPerPage := flag.Int("rows-per-page", ledger.DefaultRowsPerPage, "rows per page")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetLevel(logrus.InfoLevel)

	if err := run(log, *dir, *name, *count, *rowsPerPage); err != nil {
		log.WithError(err).Fatal("bench run failed")
	}
}

func run(log *logrus.Logger, dir, name string, count, rowsPerPage int) error {
	store, err := ledger.Open[filemanifest.FileManifest](
		dir,
		ledger.NewName(name),
		ledger.NewDescription("ledgerbench scratch ledger"),
		filemanifest.Schema{},
		&ledger.Options{RowsPerPage: rowsPerPage, Logger: log},
	)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer store.Close()

	ids := make([]ledger.RowID, 0, count)

	start := time.Now()
	for i := 0; i < count; i++ {
		row := filemanifest.New(uint32(i), fmt.Sprintf("file-%d", i), fmt.Sprintf("/data/%d", i))
		id, err := store.Insert(&row)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	insertElapsed := time.Since(start)

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	start = time.Now()
	for _, id := range ids {
		if _, err := store.AccessRow(id); err != nil {
			return fmt.Errorf("access row %d: %w", id, err)
		}
	}
	readElapsed := time.Since(start)

	if err := store.SyncAll(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	numRows, err := store.NumRows()
	if err != nil {
		return fmt.Errorf("num rows: %w", err)
	}

	fmt.Fprintf(os.Stdout, "inserted %d rows in %s (%.0f rows/sec)\n", count, insertElapsed, float64(count)/insertElapsed.Seconds())
	fmt.Fprintf(os.Stdout, "read back %d rows in %s (%.0f rows/sec)\n", count, readElapsed, float64(count)/readElapsed.Seconds())
	fmt.Fprintf(os.Stdout, "ledger now holds %d rows across %d pages\n", numRows, store.NumPages())
	return nil
}
