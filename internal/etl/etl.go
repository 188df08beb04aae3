// Package etl loads the CMS inpatient provider/service CSV into Postgres,
// attaching coordinates from the static zip table as it goes.
package etl

import (
	"context"
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/josinaldojr/providers-rag/internal/geo"
	"github.com/josinaldojr/providers-rag/internal/rag"
)

// column headers of the CMS MUP_INP file
const (
	colCCN        = "Rndrng_Prvdr_CCN"
	colName       = "Rndrng_Prvdr_Org_Name"
	colCity       = "Rndrng_Prvdr_City"
	colState      = "Rndrng_Prvdr_State_Abrvtn"
	colZip        = "Rndrng_Prvdr_Zip5"
	colDRG        = "DRG_Cd"
	colDischarges = "Tot_Dschrgs"
	colCovered    = "Avg_Submtd_Cvrd_Chrg"
	colTotal      = "Avg_Tot_Pymt_Amt"
	colMedicare   = "Avg_Mdcr_Pymt_Amt"
)

const logEvery = 1000

type Stats struct {
	Processed int
	Skipped   int
	Geocoded  int
}

type Loader struct {
	repo rag.Repository
	zips *geo.Table
}

func NewLoader(repo rag.Repository, zips *geo.Table) *Loader {
	return &Loader{repo: repo, zips: zips}
}

// Run clears the providers table and streams the CSV into it. Malformed
// rows are skipped and counted, not fatal.
func (l *Loader) Run(ctx context.Context, r io.Reader) (*Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colCCN, colName, colCity, colState, colZip, colDRG, colDischarges, colCovered, colTotal, colMedicare} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv missing column %s", required)
		}
	}

	deleted, err := l.repo.DeleteAllProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear providers: %w", err)
	}
	log.Printf("cleared %d existing provider records", deleted)

	stats := &Stats{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		p, perr := l.parseRow(col, rec)
		if perr != nil {
			log.Printf("skipping row %d: %v", line, perr)
			stats.Skipped++
			continue
		}
		if p.Latitude != nil {
			stats.Geocoded++
		}

		if _, err := l.repo.InsertProvider(ctx, p); err != nil {
			return stats, fmt.Errorf("insert provider (row %d): %w", line, err)
		}
		stats.Processed++

		if stats.Processed%logEvery == 0 {
			log.Printf("processed %d records...", stats.Processed)
		}
	}

	log.Printf("loaded %d provider records (%d skipped, %d geocoded)", stats.Processed, stats.Skipped, stats.Geocoded)
	return stats, nil
}

func (l *Loader) parseRow(col map[string]int, rec []string) (*rag.Provider, error) {
	field := func(name string) string {
		i := col[name]
		if i >= len(rec) {
			return ""
		}
		return sanitizeUTF8(strings.TrimSpace(rec[i]))
	}

	ccn := field(colCCN)
	if ccn == "" {
		return nil, fmt.Errorf("empty provider CCN")
	}

	zipRaw := field(colZip)
	if _, err := strconv.Atoi(zipRaw); err != nil {
		return nil, fmt.Errorf("invalid zip code %q", zipRaw)
	}
	zip := geo.PadZip(zipRaw)

	drg, err := strconv.Atoi(field(colDRG))
	if err != nil {
		return nil, fmt.Errorf("invalid DRG code %q", field(colDRG))
	}

	discharges, err := strconv.ParseFloat(field(colDischarges), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid discharge count %q", field(colDischarges))
	}

	covered, err := strconv.ParseFloat(field(colCovered), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid covered charge %q", field(colCovered))
	}
	total, err := strconv.ParseFloat(field(colTotal), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid total payment %q", field(colTotal))
	}
	medicare, err := strconv.ParseFloat(field(colMedicare), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid medicare payment %q", field(colMedicare))
	}

	p := &rag.Provider{
		ProviderID:              ccn,
		ProviderName:            field(colName),
		ProviderCity:            field(colCity),
		ProviderState:           field(colState),
		ProviderZipCode:         zip,
		MSDRGDefinition:         drg,
		TotalDischarges:         int(discharges),
		AverageCoveredCharges:   covered,
		AverageTotalPayments:    total,
		AverageMedicarePayments: medicare,
		StarRating:              starRating(ccn, drg),
	}

	if l.zips != nil {
		if c, ok := l.zips.Lookup(zip); ok {
			lat, lon := c.Lat, c.Lon
			p.Latitude = &lat
			p.Longitude = &lon
		}
	}

	return p, nil
}

// starRating derives a stable 1-10 rating from the provider/DRG identity.
// The upstream dataset has no quality figure, so reloads must at least
// agree with each other.
func starRating(ccn string, drg int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ccn))
	_, _ = fmt.Fprintf(h, "/%d", drg)
	return int(h.Sum32()%10) + 1
}

// sanitizeUTF8 drops invalid bytes so Postgres never rejects a row over
// encoding.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = s[size:]
	}
	return b.String()
}
