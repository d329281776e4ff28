package world

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	FileAirports   = "airports_with_stocks.csv"
	FileAircraft   = "aircraft_types.csv"
	FileFlightPlan = "flight_plan.csv"
	FileTeams      = "teams.csv"
)

// row is a single record of a semicolon-separated CSV file with columns
// addressed by header name. Parse errors accumulate and carry file and
// line context.
type row struct {
	file string
	line int
	cols map[string]int
	vals []string
	err  error
}

func (r *row) lookup(col string) (string, bool) {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.vals) {
		r.err = errors.Join(r.err, fmt.Errorf("%s:%d: missing column %q", r.file, r.line, col))
		return "", false
	}

	return strings.TrimSpace(r.vals[idx]), true
}

func (r *row) Str(col string) string {
	v, _ := r.lookup(col)
	return v
}

func (r *row) Int(col string) int {
	raw, ok := r.lookup(col)
	if !ok {
		return 0
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("%s:%d: column %q: %w", r.file, r.line, col, err))
		return 0
	}

	return v
}

func (r *row) Int64(col string) int64 {
	return int64(r.Int(col))
}

func (r *row) Float(col string) float64 {
	raw, ok := r.lookup(col)
	if !ok {
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("%s:%d: column %q: %w", r.file, r.line, col, err))
		return 0
	}

	return v
}

func (r *row) Flag(col string) bool {
	return r.Int(col) == 1
}

func (r *row) Err() error {
	return r.err
}

func forEachRow(path string, fn func(r *row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", filepath.Base(path), err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	line := 1
	for {
		vals, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line+1, err)
		}

		line++
		r := row{file: filepath.Base(path), line: line, cols: cols, vals: vals}

		if err = fn(&r); err != nil {
			return err
		}

		if err = r.Err(); err != nil {
			return err
		}
	}
}

func readAirports(path string) (map[string]Airport, error) {
	airports := make(map[string]Airport)
	err := forEachRow(path, func(r *row) error {
		a := Airport{
			Id:   r.Int64("id"),
			Code: r.Str("code"),
			Name: r.Str("name"),
			ProcessingTime: PerClass[int]{
				First:          r.Int("first_processing_time"),
				Business:       r.Int("business_processing_time"),
				PremiumEconomy: r.Int("premium_economy_processing_time"),
				Economy:        r.Int("economy_processing_time"),
			},
			ProcessingCost: PerClass[float64]{
				First:          r.Float("first_processing_cost"),
				Business:       r.Float("business_processing_cost"),
				PremiumEconomy: r.Float("premium_economy_processing_cost"),
				Economy:        r.Float("economy_processing_cost"),
			},
			LoadingCost: PerClass[float64]{
				First:          r.Float("first_loading_cost"),
				Business:       r.Float("business_loading_cost"),
				PremiumEconomy: r.Float("premium_economy_loading_cost"),
				Economy:        r.Float("economy_loading_cost"),
			},
			Capacity: PerClass[int]{
				First:          r.Int("capacity_fc"),
				Business:       r.Int("capacity_bc"),
				PremiumEconomy: r.Int("capacity_pe"),
				Economy:        r.Int("capacity_ec"),
			},
			InitialStock: PerClass[int]{
				First:          r.Int("initial_fc_stock"),
				Business:       r.Int("initial_bc_stock"),
				PremiumEconomy: r.Int("initial_pe_stock"),
				Economy:        r.Int("initial_ec_stock"),
			},
		}

		airports[a.Code] = a
		return nil
	})

	return airports, err
}

func readAircraftTypes(path string) (map[string]AircraftType, error) {
	types := make(map[string]AircraftType)
	err := forEachRow(path, func(r *row) error {
		ac := AircraftType{
			Id:             r.Int64("id"),
			TypeCode:       r.Str("type_code"),
			CostPerKgPerKm: r.Float("cost_per_kg_per_km"),
			Seats: PerClass[int]{
				First:          r.Int("first_class_seats"),
				Business:       r.Int("business_seats"),
				PremiumEconomy: r.Int("premium_economy_seats"),
				Economy:        r.Int("economy_seats"),
			},
			KitCapacity: PerClass[int]{
				First:          r.Int("first_class_kits_capacity"),
				Business:       r.Int("business_kits_capacity"),
				PremiumEconomy: r.Int("premium_economy_kits_capacity"),
				Economy:        r.Int("economy_kits_capacity"),
			},
		}

		types[ac.TypeCode] = ac
		return nil
	})

	return types, err
}

func readFlightPlan(path string) ([]FlightPlanEntry, error) {
	var plan []FlightPlanEntry
	err := forEachRow(path, func(r *row) error {
		entry := FlightPlanEntry{
			Origin:         r.Str("depart_code"),
			Destination:    r.Str("arrival_code"),
			DepartureHour:  r.Int("scheduled_hour"),
			ArrivalHour:    r.Int("scheduled_arrival_hour"),
			ArrivalNextDay: r.Flag("arrival_next_day"),
			DistanceKm:     r.Float("distance_km"),
			daysActive: [7]bool{
				r.Flag("Mon"),
				r.Flag("Tue"),
				r.Flag("Wed"),
				r.Flag("Thu"),
				r.Flag("Fri"),
				r.Flag("Sat"),
				r.Flag("Sun"),
			},
		}

		plan = append(plan, entry)
		return nil
	})

	return plan, err
}

var ErrNoAPIKey = errors.New("no api key found")

// ReadAPIKey returns the api_key of the first row of teams.csv.
func ReadAPIKey(dataDir string) (string, error) {
	var key string
	err := forEachRow(filepath.Join(dataDir, FileTeams), func(r *row) error {
		if key == "" {
			key = r.Str("api_key")
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	if key == "" {
		return "", ErrNoAPIKey
	}

	return key, nil
}
