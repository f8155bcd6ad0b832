// Package frost shifts species calendars to reflect regional frost
// timing relative to the De Bilt reference station.
package frost

import (
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gardenplan/core/internal/domain/entities"
)

//go:embed stations.yaml
var stationsYAML []byte

type postcodeRange struct {
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
	Station string `yaml:"station"`
}

type stationFile struct {
	ReferenceStation string             `yaml:"reference_station"`
	Stations         []entities.Station `yaml:"stations"`
	PostcodeRanges   []postcodeRange    `yaml:"postcode_ranges"`
}

// Index is the immutable station lookup, built once at startup.
type Index struct {
	byCode    map[string]entities.Station
	ranges    []postcodeRange
	reference entities.Station
}

// NewIndex builds a station index from explicit definitions. Intended
// for tests that need substitute reference data.
func NewIndex(referenceCode string, stations []entities.Station, ranges map[[2]int]string) (*Index, error) {
	byCode := make(map[string]entities.Station, len(stations))
	for _, s := range stations {
		byCode[s.Code] = s
	}
	ref, ok := byCode[referenceCode]
	if !ok {
		return nil, fmt.Errorf("reference station %q not in station set", referenceCode)
	}
	idx := &Index{byCode: byCode, reference: ref}
	for span, code := range ranges {
		idx.ranges = append(idx.ranges, postcodeRange{From: span[0], To: span[1], Station: code})
	}
	return idx, nil
}

// LoadIndex parses the embedded KNMI station data.
func LoadIndex() (*Index, error) {
	var f stationFile
	if err := yaml.Unmarshal(stationsYAML, &f); err != nil {
		return nil, fmt.Errorf("parse station data: %w", err)
	}

	byCode := make(map[string]entities.Station, len(f.Stations))
	for _, s := range f.Stations {
		byCode[s.Code] = s
	}
	ref, ok := byCode[f.ReferenceStation]
	if !ok {
		return nil, fmt.Errorf("reference station %q not in station set", f.ReferenceStation)
	}

	return &Index{byCode: byCode, ranges: f.PostcodeRanges, reference: ref}, nil
}

// Reference returns the fixed reference station (De Bilt, code 260)
// that anchors all relative shifts.
func (i *Index) Reference() entities.Station {
	return i.reference
}

// StationByCode looks up a station; ok is false when unknown.
func (i *Index) StationByCode(code string) (entities.Station, bool) {
	s, ok := i.byCode[code]
	return s, ok
}

// StationByPostcode maps the numeric 4-digit postcode prefix onto a
// station. Free-form input is accepted; only the first four numeric
// characters are significant. Fewer than four digits, or an unmatched
// prefix, resolves to the reference station.
func (i *Index) StationByPostcode(postcode string) entities.Station {
	digits := make([]rune, 0, 4)
	for _, r := range postcode {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 4 {
				break
			}
		}
	}
	if len(digits) < 4 {
		return i.reference
	}

	prefix, err := strconv.Atoi(string(digits))
	if err != nil {
		return i.reference
	}
	for _, pr := range i.ranges {
		if prefix >= pr.From && prefix <= pr.To {
			if s, ok := i.byCode[pr.Station]; ok {
				return s
			}
		}
	}
	return i.reference
}
