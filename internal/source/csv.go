package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/sifthq/corral/internal/core/model"
)

// CSVSource reads the raw corpus CSV (the globalterrorismdb distribution
// layout) directly. The file is Latin-1 encoded and column order varies
// between releases, so columns are resolved by header name.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Close(ctx context.Context) error { return nil }

func (s *CSVSource) LoadAll(ctx context.Context) ([]model.Incident, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file %q: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"eventid", "iyear"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("corpus file %q is missing column %q", s.Path, required)
		}
	}

	var incidents []model.Incident
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row: %w", err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		eventID, err := strconv.ParseInt(field("eventid"), 10, 64)
		if err != nil {
			continue
		}
		incidents = append(incidents, model.Incident{
			EventID:    eventID,
			GroupName:  field("gname"),
			Year:       numField(field("iyear")),
			Month:      numField(field("imonth")),
			Day:        numField(field("iday")),
			City:       field("city"),
			Region:     field("region_txt"),
			Country:    field("country_txt"),
			AttackType: field("attacktype1_txt"),
			TargetType: field("targtype1_txt"),
			WeaponType: field("weaptype1_txt"),
			Casualties: numField(field("nkill")),
			Wounded:    numField(field("nwound")),
		})
	}
	return incidents, nil
}

// numField parses an integer column that some releases serialize as a
// float ("4.0"). Empty or malformed values become zero, which the loader
// treats as unknown.
func numField(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
