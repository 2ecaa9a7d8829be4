package loader

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"boardroom/domain/core"
	"boardroom/domain/dataset"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TableQuery is the only query run against uploaded databases
const TableQuery = "SELECT * FROM my_table"

// readSQLite writes the upload to a temporary file, opens it read-only and
// reads every row of my_table. Driver types are kept: integers and reals become
// numbers, text and blobs become text, timestamps stay timestamps.
func readSQLite(ctx context.Context, data []byte) (*dataset.Dataset, error) {
	tmp, err := os.CreateTemp("", "boardroom-*.db")
	if err != nil {
		return nil, fmt.Errorf("failed to stage database: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage database: %w", err)
	}

	db, err := sqlx.Open("sqlite", "file:"+tmp.Name()+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, TableQuery)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, fmt.Errorf("%w: %v", core.ErrNoTable, err)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columns := make([][]dataset.Value, len(names))
	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, cell := range cells {
			columns[i] = append(columns[i], sqlValue(cell))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ds := dataset.New()
	for i, name := range dataset.UniqueNames(names) {
		values := columns[i]
		if values == nil {
			values = []dataset.Value{}
		}
		if err := ds.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func sqlValue(v interface{}) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Missing()
	case int64:
		return dataset.Number(float64(x))
	case float64:
		return dataset.Number(x)
	case bool:
		if x {
			return dataset.Number(1)
		}
		return dataset.Number(0)
	case []byte:
		return dataset.Text(string(x))
	case string:
		return dataset.Text(x)
	case time.Time:
		return dataset.Timestamp(x)
	}
	return dataset.Text(fmt.Sprint(v))
}
