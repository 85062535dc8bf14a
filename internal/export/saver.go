package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Saver encodes a run of rows in one file format.
type Saver interface {
	Write(w io.Writer, rows []Row) error
	Extension() string
	ContentType() string
}

// NewSaver returns the saver for format (csv, parquet, json), or nil if the format is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json", "":
		return JSONSaver{}
	default:
		return nil
	}
}

// JSONSaver writes rows as an indented JSON array.
type JSONSaver struct{}

func (JSONSaver) Extension() string   { return "json" }
func (JSONSaver) ContentType() string { return "application/json" }

func (JSONSaver) Write(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// CSVSaver writes rows with a header line.
type CSVSaver struct{}

func (CSVSaver) Extension() string   { return "csv" }
func (CSVSaver) ContentType() string { return "text/csv" }

func (CSVSaver) Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "t", "o", "h", "l", "c", "v"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Symbol,
			strconv.FormatInt(r.Timestamp, 10),
			strconv.FormatFloat(r.Open, 'f', -1, 64),
			strconv.FormatFloat(r.High, 'f', -1, 64),
			strconv.FormatFloat(r.Low, 'f', -1, 64),
			strconv.FormatFloat(r.Close, 'f', -1, 64),
			strconv.FormatInt(r.Volume, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParquetSaver writes rows as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string   { return "parquet" }
func (ParquetSaver) ContentType() string { return "application/vnd.apache.parquet" }

func (ParquetSaver) Write(w io.Writer, rows []Row) error {
	return parquet.Write(w, rows)
}
