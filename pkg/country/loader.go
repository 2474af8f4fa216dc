package country

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed countries.csv
var countriesCSV string

// Load reads the country list from the CSV file at path, or from the
// embedded list when path is empty.
func Load(path string) (List, error) {
	var r io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	} else {
		r = strings.NewReader(countriesCSV)
	}
	return parse(r)
}

// MustLoadEmbedded returns the embedded list and panics if it is broken.
func MustLoadEmbedded() List {
	l, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("country: embedded list: %v", err))
	}
	return l
}

func parse(r io.Reader) (List, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("invalid CSV format: missing header")
	}
	if len(records[0]) < 3 {
		return nil, fmt.Errorf(
			"invalid CSV format: expected at least 3 columns, got %d",
			len(records[0]),
		)
	}

	type key struct{ code, name string }
	seen := make(map[key]bool, len(records))
	list := make(List, 0, len(records)-1)
	for _, rec := range records[1:] {
		// Skip malformed rows
		if len(rec) < 3 {
			continue
		}
		e := Entry{
			DialCode: strings.TrimSpace(rec[0]),
			Flag:     strings.TrimSpace(rec[1]),
			Name:     strings.TrimSpace(rec[2]),
		}
		if e.DialCode == "" || e.Name == "" {
			continue
		}
		k := key{e.DialCode, e.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		list = append(list, e)
	}
	return list, nil
}
