package devcode

import (
	"github.com/gofrs/uuid/v5"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/mihaipriboi/HackitAll2025/world"
)

const (
	EventScheduled = "SCHEDULED"
	EventDeparted  = "DEPARTED"
	EventLanded    = "LANDED"
	EventCancelled = "CANCELLED"
)

type PerClassAmount struct {
	First          int `json:"first"`
	Business       int `json:"business"`
	PremiumEconomy int `json:"premiumEconomy"`
	Economy        int `json:"economy"`
}

func AmountOf(p world.PerClass[int]) PerClassAmount {
	return PerClassAmount{
		First:          p.First,
		Business:       p.Business,
		PremiumEconomy: p.PremiumEconomy,
		Economy:        p.Economy,
	}
}

func (a PerClassAmount) PerClass() world.PerClass[int] {
	return world.PerClass[int]{
		First:          a.First,
		Business:       a.Business,
		PremiumEconomy: a.PremiumEconomy,
		Economy:        a.Economy,
	}
}

type FlightLoad struct {
	FlightId   uuid.UUID      `json:"flightId"`
	LoadedKits PerClassAmount `json:"loadedKits"`
}

type RoundRequest struct {
	Day                 int            `json:"day"`
	Hour                int            `json:"hour"`
	FlightLoads         []FlightLoad   `json:"flightLoads"`
	KitPurchasingOrders PerClassAmount `json:"kitPurchasingOrders"`
}

type TimeRef struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

func (t TimeRef) Tick() gametime.Tick {
	return gametime.New(t.Day, t.Hour)
}

type FlightUpdate struct {
	FlightId           uuid.UUID      `json:"flightId"`
	FlightNumber       string         `json:"flightNumber"`
	EventType          string         `json:"eventType"`
	OriginAirport      string         `json:"originAirport"`
	DestinationAirport string         `json:"destinationAirport"`
	AircraftType       string         `json:"aircraftType"`
	Departure          TimeRef        `json:"departure"`
	Arrival            TimeRef        `json:"arrival"`
	Passengers         PerClassAmount `json:"passengers"`
}

type Penalty struct {
	Reason  string  `json:"reason"`
	Penalty float64 `json:"penalty"`
}

type RoundResult struct {
	TotalCost     float64        `json:"totalCost"`
	Penalties     []Penalty      `json:"penalties"`
	FlightUpdates []FlightUpdate `json:"flightUpdates"`
}
