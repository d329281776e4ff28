package world

import (
	"fmt"
	"time"
)

type Airport struct {
	Id   int64
	Code string
	Name string

	// ProcessingTime is the number of hours a used kit spends in
	// processing at this airport before it returns to stock.
	ProcessingTime PerClass[int]
	ProcessingCost PerClass[float64]
	LoadingCost    PerClass[float64]
	Capacity       PerClass[int]
	InitialStock   PerClass[int]
}

func (a Airport) String() string {
	return fmt.Sprintf("Airport(%s)", a.Code)
}

type AircraftType struct {
	Id             int64
	TypeCode       string
	CostPerKgPerKm float64
	Seats          PerClass[int]
	KitCapacity    PerClass[int]
}

type FlightPlanEntry struct {
	Origin         string
	Destination    string
	DepartureHour  int
	ArrivalHour    int
	ArrivalNextDay bool
	DistanceKm     float64

	daysActive [7]bool
}

// OperatesOn reports whether the entry is flown on the given weekday.
func (f FlightPlanEntry) OperatesOn(day time.Weekday) bool {
	// daysActive is indexed Monday first, matching the plan CSV columns.
	return f.daysActive[(int(day)+6)%7]
}

func (f FlightPlanEntry) String() string {
	return fmt.Sprintf("Flight(%s->%s @ %02d:00)", f.Origin, f.Destination, f.DepartureHour)
}
