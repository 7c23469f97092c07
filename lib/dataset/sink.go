package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists a finished dataset.
type Sink interface {
	Write(ctx context.Context, name string, columns []string, rows [][]string) error
	String() string
}

// CSVSink writes a header and every row to Path, replacing whatever was
// there before.
type CSVSink struct {
	Path string
}

func (s CSVSink) String() string {
	return fmt.Sprintf("csv %s", s.Path)
}

func (s CSVSink) Write(_ context.Context, _ string, columns []string, rows [][]string) error {
	dir := filepath.Dir(s.Path)
	if dir != "" {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return err
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(columns)
	if err != nil {
		return err
	}
	err = w.WriteAll(rows)
	if err != nil {
		return err
	}
	return f.Close()
}
