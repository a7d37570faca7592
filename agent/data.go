package agent

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/quillon/agentdeck/core"
)

// Data reads, writes and queries structured data across the formats the
// original toolchain supports: csv, json, yaml and sqlite. The operation and
// format are selected through the input payload:
//
//	{"operation": "read", "format": "csv", "source": "data/sample.csv"}
//	{"operation": "query", "format": "sqlite", "source": "app.db", "query": "SELECT ..."}
//	{"operation": "write", "format": "json", "source": "out.json", "data": ...}
type Data struct{}

// NewData constructs the data agent.
func NewData() *Data { return &Data{} }

// Descriptor returns the registration metadata for this agent.
func (a *Data) Descriptor() core.Descriptor {
	return core.Descriptor{
		Name:        "data_agent",
		Description: "Reads, writes and queries csv, json, yaml and sqlite data",
		Capabilities: []string{
			"data_processing",
			"csv_handling",
			"json_handling",
			"yaml_handling",
			"sqlite_handling",
			"data_querying",
		},
	}
}

// Invoke implements core.Agent.
func (a *Data) Invoke(ctx context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
	operation := input.GetString("operation")
	if operation == "" {
		operation = "read"
	}
	format := input.GetString("format")
	if format == "" {
		format = "csv"
	}
	source := input.GetString("source")
	if source == "" {
		return nil, fmt.Errorf("source is required")
	}

	switch operation {
	case "read":
		return a.read(ctx, format, source, input.GetString("query"))
	case "write":
		return a.write(format, source, input["data"])
	case "query":
		return a.query(ctx, format, source, input.GetString("query"))
	default:
		return nil, fmt.Errorf("unsupported operation: %s", operation)
	}
}

func (a *Data) read(ctx context.Context, format, source, query string) (core.Payload, error) {
	switch format {
	case "csv":
		rows, err := readCSV(source)
		if err != nil {
			return nil, err
		}
		return core.Payload{"data": rows}, nil
	case "json":
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		return core.Payload{"data": data}, nil
	case "yaml":
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		var data any
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		return core.Payload{"data": data}, nil
	case "sqlite":
		if query == "" {
			query = "SELECT * FROM main"
		}
		return a.query(ctx, format, source, query)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (a *Data) query(ctx context.Context, format, source, query string) (core.Payload, error) {
	if format != "sqlite" {
		return nil, fmt.Errorf("querying not supported for format: %s", format)
	}
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", source, err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return core.Payload{"data": records}, nil
}

func (a *Data) write(format, target string, data any) (core.Payload, error) {
	switch format {
	case "json":
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
	case "yaml":
		raw, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
	case "csv":
		if err := writeCSV(target, data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return core.Payload{"status": "success", "target": target}, nil
}

// readCSV loads a headered csv file into a list of row maps. Numeric and
// boolean cells are converted so downstream steps see JSON-typed values.
func readCSV(source string) ([]any, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if len(all) == 0 {
		return []any{}, nil
	}

	header := all[0]
	records := make([]any, 0, len(all)-1)
	for _, row := range all[1:] {
		record := make(map[string]any, len(header))
		for i, col := range header {
			if i >= len(row) {
				continue
			}
			record[col] = coerceCell(row[i])
		}
		records = append(records, record)
	}
	return records, nil
}

func coerceCell(cell string) any {
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return b
	}
	return cell
}

func writeCSV(target string, data any) error {
	rows, ok := data.([]any)
	if !ok {
		return fmt.Errorf("csv write expects a list of row objects")
	}

	var header []string
	var records [][]string
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return fmt.Errorf("csv write expects a list of row objects")
		}
		if header == nil {
			for k := range m {
				header = append(header, k)
			}
			sort.Strings(header)
		}
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = fmt.Sprintf("%v", m[col])
		}
		records = append(records, record)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	records := []any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case []byte:
				record[col] = string(v)
			case int64:
				record[col] = float64(v)
			default:
				record[col] = v
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
