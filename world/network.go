package world

import (
	"context"
	"fmt"
	"github.com/mihaipriboi/HackitAll2025/concurrent"
	"golang.org/x/sync/errgroup"
	"path/filepath"
)

const HubCode = "HUB1"

// Network is the static flight network plus the agent's mutable view of
// kit stock per airport. Stock here mirrors what the agent believes the
// server state to be; the server remains authoritative.
type Network struct {
	airports      map[string]Airport
	aircraftTypes map[string]AircraftType
	plan          []FlightPlanEntry
	stock         concurrent.Map[string, PerClass[int]]
}

func NewNetwork(airports map[string]Airport, aircraftTypes map[string]AircraftType, plan []FlightPlanEntry) *Network {
	n := Network{
		airports:      airports,
		aircraftTypes: aircraftTypes,
		plan:          plan,
		stock:         concurrent.NewMap[string, PerClass[int]](),
	}

	for code, a := range airports {
		n.stock.Store(code, a.InitialStock)
	}

	return &n
}

// LoadNetwork reads the three network CSVs from dataDir concurrently.
func LoadNetwork(ctx context.Context, dataDir string) (*Network, error) {
	var airports map[string]Airport
	var aircraftTypes map[string]AircraftType
	var plan []FlightPlanEntry

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		airports, err = readAirports(filepath.Join(dataDir, FileAirports))
		return err
	})
	g.Go(func() error {
		var err error
		aircraftTypes, err = readAircraftTypes(filepath.Join(dataDir, FileAircraft))
		return err
	})
	g.Go(func() error {
		var err error
		plan, err = readFlightPlan(filepath.Join(dataDir, FileFlightPlan))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, ok := airports[HubCode]; !ok {
		return nil, fmt.Errorf("airport %s missing from %s", HubCode, FileAirports)
	}

	return NewNetwork(airports, aircraftTypes, plan), nil
}

func (n *Network) Airport(code string) (Airport, bool) {
	a, ok := n.airports[code]
	return a, ok
}

func (n *Network) Airports() map[string]Airport {
	return n.airports
}

func (n *Network) AircraftType(typeCode string) (AircraftType, bool) {
	ac, ok := n.aircraftTypes[typeCode]
	return ac, ok
}

func (n *Network) FlightPlan() []FlightPlanEntry {
	return n.plan
}

func (n *Network) Stock(code string) PerClass[int] {
	s, _ := n.stock.Load(code)
	return s
}

func (n *Network) AddStock(code string, c ServiceClass, amount int) {
	n.adjustStock(code, c, amount)
}

func (n *Network) DeductStock(code string, c ServiceClass, amount int) {
	n.adjustStock(code, c, -amount)
}

func (n *Network) adjustStock(code string, c ServiceClass, delta int) {
	n.stock.Compute(code, func(s PerClass[int], _ bool) (PerClass[int], bool) {
		s.Update(c, func(v int) int { return v + delta })
		return s, true
	})
}

// StockStatus classifies an airport's stock against its capacity the way
// the operator dashboard displays it.
type StockStatus string

const (
	StockOK       StockStatus = "OK"
	StockLow      StockStatus = "LOW"
	StockNearCap  StockStatus = "NEAR_CAPACITY"
	StockNegative StockStatus = "NEGATIVE"
	StockOverflow StockStatus = "OVERFLOW"
)

func (n *Network) Status(code string) StockStatus {
	a, ok := n.airports[code]
	if !ok {
		return StockOK
	}

	s := n.Stock(code)
	for _, c := range Classes {
		if s.Get(c) < 0 {
			return StockNegative
		}

		if s.Get(c) > a.Capacity.Get(c) {
			return StockOverflow
		}
	}

	if s.Economy < 20 {
		return StockLow
	}

	if a.Capacity.Economy-s.Economy < 20 {
		return StockNearCap
	}

	return StockOK
}
