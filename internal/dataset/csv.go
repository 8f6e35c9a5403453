package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// FromRows builds a Dataset from rows carrying reward_1..reward_K and
// cost_1..cost_K columns. score_1..score_K are optional; when absent the
// rewards double as evaluation scores.
func FromRows(rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: no data rows")
	}

	k := 0
	for {
		if _, ok := rows[0][column("reward", k+1)]; !ok {
			break
		}
		k++
	}
	if k == 0 {
		return nil, fmt.Errorf("csv: missing column %q", column("reward", 1))
	}
	_, hasScore := rows[0][column("score", 1)]

	reward := make([][]float64, len(rows))
	cost := make([][]float64, len(rows))
	score := make([][]float64, len(rows))
	for i, row := range rows {
		var err error
		if reward[i], err = parseColumns(row, "reward", k, i); err != nil {
			return nil, err
		}
		if cost[i], err = parseColumns(row, "cost", k, i); err != nil {
			return nil, err
		}
		if hasScore {
			if score[i], err = parseColumns(row, "score", k, i); err != nil {
				return nil, err
			}
		} else {
			score[i] = reward[i]
		}
	}

	return New(reward, cost, score)
}

// LoadDataset is LoadCSV followed by FromRows.
func LoadDataset(path string) (*Dataset, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	ds, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return ds, nil
}

func column(prefix string, option int) string {
	return prefix + "_" + strconv.Itoa(option)
}

func parseColumns(row Row, prefix string, k, line int) ([]float64, error) {
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		name := column(prefix, j+1)
		raw, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("csv: row %d: missing column %q", line+1, name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: column %q: %w", line+1, name, err)
		}
		out[j] = v
	}
	return out, nil
}
