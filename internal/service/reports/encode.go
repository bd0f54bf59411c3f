package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// encodePayload turns one run's tabular data into the requested format.
// JSON payloads are an array of column-keyed objects; CSV payloads carry a
// header row. PDF rendering has no backend here, so requesting it fails the
// run with a clear reason instead of storing garbage.
func encodePayload(format domain.ReportFormat, columns []string, rows [][]any) ([]byte, error) {
	switch format {
	case domain.FormatJSON:
		out := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]any, len(columns))
			for i, col := range columns {
				if i < len(row) {
					obj[col] = row[i]
				}
			}
			out = append(out, obj)
		}
		return json.Marshal(out)
	case domain.FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(columns); err != nil {
			return nil, err
		}
		for _, row := range rows {
			rec := make([]string, len(columns))
			for i := range columns {
				if i < len(row) {
					rec[i] = cellString(row[i])
				}
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	case domain.FormatPDF:
		return nil, fmt.Errorf("pdf rendering is not available")
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
