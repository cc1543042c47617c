package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"lead-reconciler/core/storage"
	"lead-reconciler/feature/leads"

	"github.com/minio/minio-go/v7"
)

// requiredColumns is the exact header set a batch file must carry.
var requiredColumns = []string{"Name", "Email", "Company", "Source"}

// Load reads a CSV batch from a local file. The whole file is loaded into
// memory before reconciliation starts. Any failure here is fatal for the
// run: there is nothing to reconcile without records.
func Load(path string) ([]leads.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// LoadObject reads a CSV batch from an object in S3-compatible storage.
func LoadObject(ctx context.Context, client storage.Client, bucket, object string) ([]leads.Lead, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("ingest: check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("ingest: bucket %s does not exist", bucket)
	}

	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("ingest: get object %s: %w", object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("ingest: read object %s: %w", object, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes CSV content into leads. The header row is mandatory and must
// contain exactly the Name, Email, Company and Source columns (any order);
// every data row's field count must equal the header's; blank lines are
// ignored.
func Parse(r io.Reader) ([]leads.Lead, error) {
	reader := csv.NewReader(r)
	// Enforce per-row field counts ourselves for a clearer error.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingest: missing header row")
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	batch := make([]leads.Lead, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("ingest: row %d has %d fields, header has %d", i+2, len(row), len(rows[0]))
		}
		batch = append(batch, leads.Lead{
			Name:    row[index["Name"]],
			Email:   row[index["Email"]],
			Company: row[index["Company"]],
			Source:  row[index["Source"]],
		})
	}
	return batch, nil
}

// headerIndex maps the required column names to their positions and rejects
// missing or extra columns.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("ingest: duplicate column %q in header", name)
		}
		index[name] = i
	}

	var missing, extra []string
	for _, want := range requiredColumns {
		if _, ok := index[want]; !ok {
			missing = append(missing, want)
		}
	}
	for name := range index {
		if !isRequired(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		return nil, fmt.Errorf("ingest: header must contain exactly %v (missing %v, extra %v)", requiredColumns, missing, extra)
	}
	return index, nil
}

func isRequired(name string) bool {
	for _, want := range requiredColumns {
		if name == want {
			return true
		}
	}
	return false
}
