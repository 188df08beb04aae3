package geo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Table is a static zip-code to coordinates lookup, loaded once from the
// bundled US zips CSV. Read-only after load.
type Table struct {
	byZip map[string]Coordinates
}

// LoadTable reads a CSV with "postal code", "latitude" and "longitude"
// columns. Rows with malformed coordinates are skipped.
func LoadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read zip csv header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	zipIdx, ok := col["postal code"]
	if !ok {
		return nil, fmt.Errorf("zip csv missing 'postal code' column")
	}
	latIdx, ok := col["latitude"]
	if !ok {
		return nil, fmt.Errorf("zip csv missing 'latitude' column")
	}
	lonIdx, ok := col["longitude"]
	if !ok {
		return nil, fmt.Errorf("zip csv missing 'longitude' column")
	}

	t := &Table{byZip: make(map[string]Coordinates)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read zip csv: %w", err)
		}
		if zipIdx >= len(rec) || latIdx >= len(rec) || lonIdx >= len(rec) {
			continue
		}

		zip := PadZip(strings.TrimSpace(rec[zipIdx]))
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
		if err != nil {
			continue
		}

		// first entry wins when a zip repeats
		if _, exists := t.byZip[zip]; !exists {
			t.byZip[zip] = Coordinates{Lat: lat, Lon: lon}
		}
	}

	return t, nil
}

// LoadTableFile is LoadTable over a file path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zip csv %s: %w", path, err)
	}
	defer f.Close()
	return LoadTable(f)
}

// Lookup returns the coordinates for a zip code, padding short zips to
// five digits before matching.
func (t *Table) Lookup(zip string) (Coordinates, bool) {
	c, ok := t.byZip[PadZip(strings.TrimSpace(zip))]
	return c, ok
}

func (t *Table) Len() int {
	return len(t.byZip)
}

// PadZip left-pads a zip code with zeros to five digits. CSV sources keep
// dropping the leading zeros of New England zips.
func PadZip(zip string) string {
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}
