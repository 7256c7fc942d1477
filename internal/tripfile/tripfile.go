// Package tripfile reads trips (stops plus an inline cost matrix) from YAML.
//
//	origin:      {id: home, name: Home, lon: -73.98, lat: 40.75}
//	destination: {id: work, lon: -73.99, lat: 40.71}
//	mandatory:   [{id: bank, lon: -73.97, lat: 40.74}]
//	optional:    [{id: cafe, lon: -73.96, lat: 40.73}]
//	threshold:   6
//	costs:
//	  - {from: home, to: bank, duration_seconds: 600, distance_meters: 4000}
package tripfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/services"
	"gopkg.in/yaml.v3"
)

type Location struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Lon  float64 `yaml:"lon"`
	Lat  float64 `yaml:"lat"`
}

type Cost struct {
	From            string `yaml:"from"`
	To              string `yaml:"to"`
	DurationSeconds int    `yaml:"duration_seconds"`
	DistanceMeters  int    `yaml:"distance_meters"`
}

type TripFile struct {
	Origin      *Location  `yaml:"origin"`
	Destination *Location  `yaml:"destination"`
	Mandatory   []Location `yaml:"mandatory"`
	Optional    []Location `yaml:"optional"`
	Costs       []Cost     `yaml:"costs"`
	Threshold   *int       `yaml:"threshold"`
	Workers     *int       `yaml:"workers"`
}

// Load reads and decodes a trip file from disk.
func Load(path string) (*TripFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load trip file: %w", err)
	}
	defer f.Close()

	tf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load trip file %q: %w", path, err)
	}
	return tf, nil
}

// Decode parses a single YAML document, rejecting unknown keys.
func Decode(r io.Reader) (*TripFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var tf TripFile
	if err := dec.Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode trip: empty document")
		}
		return nil, fmt.Errorf("decode trip: %w", err)
	}
	return &tf, nil
}

func (l Location) toDomain() domain.Location {
	return domain.Location{ID: l.ID, Name: l.Name, Coordinates: domain.Coordinates{Lon: l.Lon, Lat: l.Lat}}
}

// Input converts the file's stops into optimizer input.
func (t *TripFile) Input() services.TripInput {
	in := services.TripInput{}
	if t.Origin != nil {
		o := t.Origin.toDomain()
		in.Origin = &o
	}
	if t.Destination != nil {
		d := t.Destination.toDomain()
		in.Destination = &d
	}
	for _, l := range t.Mandatory {
		in.Mandatory = append(in.Mandatory, l.toDomain())
	}
	for _, l := range t.Optional {
		in.Optional = append(in.Optional, l.toDomain())
	}
	return in
}

// Matrix builds the cost matrix from the file's costs.
func (t *TripFile) Matrix() (*domain.CostMatrix, error) {
	m := domain.NewCostMatrix()
	for i, c := range t.Costs {
		if err := m.Set(c.From, c.To, domain.Cost{DurationSeconds: c.DurationSeconds, DistanceMeters: c.DistanceMeters}); err != nil {
			return nil, fmt.Errorf("trip costs[%d]: %w", i, err)
		}
	}
	return m, nil
}

// Options overlays the file's threshold and workers on defaults.
func (t *TripFile) Options(defaults services.Options) services.Options {
	opts := defaults
	if t.Threshold != nil {
		opts.Threshold = *t.Threshold
	}
	if t.Workers != nil {
		opts.Workers = *t.Workers
	}
	return opts
}
