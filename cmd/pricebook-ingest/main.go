// Command pricebook-ingest loads supplier price books into the product
// catalog. Suppliers deliver gzipped CSV exports (sku,name,price,category);
// the same SKU may appear in several exports with conflicting details. A SKU
// is accepted only when it appears in at least two exports, which filters out
// one-off typos and stale rows. The tool streams each file twice: pass 1
// builds a bloom filter per file, pass 2 collects rows whose SKU tests
// positive in at least one other file's filter.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/alvamitra/pos-quoting/internal/domain/product"
	"github.com/alvamitra/pos-quoting/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
)

// row is a parsed price book line.
type row struct {
	sku      string
	name     string
	price    decimal.Decimal
	category string
}

// fileResult holds candidate rows found in a single file during pass 2,
// keyed by SKU, with a bitmask of the files whose filters matched.
type fileResult struct {
	rows  map[string]row
	masks map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz price book files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("price book ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("price book ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob price book files")
	}
	if len(files) < 2 {
		return errors.Errorf("need at least 2 price book files in %s, found %d", dataDir, len(files))
	}

	// Pass 1: build one bloom filter of SKUs per file, concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: collect rows whose SKU appears in 2+ files.
	slog.Info("pass 2: finding confirmed rows")

	confirmed, err := findConfirmedRows(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find confirmed rows")
	}

	slog.Info("confirmed rows", slog.Int("count", len(confirmed)))

	if len(confirmed) == 0 {
		slog.Info("no rows to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := writeProducts(ctx, postgres.NewProductRepository(pool), confirmed); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			r, ok := parseRow(line)
			if !ok {
				return
			}
			filter.AddString(r.sku)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("rows", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_rows", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConfirmedRows re-streams each file and checks SKUs against OTHER files'
// bloom filters. A row is confirmed when its SKU appears in 2 or more files;
// the row details from the last file processed win.
func findConfirmedRows(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]row, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all files.
	merged := make(map[string]uint)
	rows := make(map[string]row)
	for _, r := range results {
		for sku, mask := range r.masks {
			merged[sku] |= mask
			rows[sku] = r.rows[sku]
		}
	}

	// Keep rows whose SKU appears in 2+ files.
	var confirmed []row
	for sku, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			confirmed = append(confirmed, rows[sku])
		}
	}

	return confirmed, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		res := fileResult{
			rows:  make(map[string]row),
			masks: make(map[string]uint),
		}
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			r, ok := parseRow(line)
			if !ok {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("rows", count),
				)
			}

			// Check if this SKU appears in any OTHER file's bloom filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(r.sku) {
					res.rows[r.sku] = r
					res.masks[r.sku] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_rows", count),
			slog.Int("candidates", len(res.rows)),
		)

		results[idx] = res
		return nil
	}
}

// parseRow parses a "sku,name,price,category" line. Rows with missing fields
// or unparseable prices are skipped.
func parseRow(line string) (row, bool) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) != 4 {
		return row{}, false
	}

	sku := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if sku == "" || name == "" || strings.EqualFold(sku, "sku") {
		return row{}, false
	}

	price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil || price.IsNegative() {
		return row{}, false
	}

	return row{
		sku:      sku,
		name:     name,
		price:    price,
		category: strings.TrimSpace(parts[3]),
	}, true
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeProducts upserts all confirmed rows into the catalog. The SKU doubles
// as the product ID for ingested rows.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, rows []row) error {
	slog.Info("writing products to database", slog.Int("count", len(rows)))

	for i, r := range rows {
		p := product.Product{
			ID:       r.sku,
			SKU:      r.sku,
			Name:     r.name,
			Price:    r.price,
			Category: r.category,
		}
		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", r.sku)
		}

		if (i+1)%100 == 0 || i+1 == len(rows) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(rows)))
		}
	}

	return nil
}
