package strategy

import (
	"github.com/gofrs/uuid/v5"
	"github.com/mihaipriboi/HackitAll2025/concurrent"
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/mihaipriboi/HackitAll2025/world"
	"math"
	"sync"
)

// Params are the runtime-tunable knobs of the decision engine.
type Params struct {
	// BufferFactor is the fraction of extra kits loaded on top of the
	// passenger forecast.
	BufferFactor float64 `json:"bufferFactor"`
	// PurchaseHorizonDays is how far ahead hub demand is covered by
	// purchase orders.
	PurchaseHorizonDays float64 `json:"purchaseHorizonDays"`
	// Endgame stops buffering and purchasing so remaining stock drains
	// before the game ends.
	Endgame bool `json:"endgame"`
}

func DefaultParams() Params {
	return Params{
		BufferFactor:        0.1,
		PurchaseHorizonDays: 2,
	}
}

type scheduledFlight struct {
	Id           uuid.UUID
	Number       string
	Origin       string
	Destination  string
	AircraftType string
	Departure    gametime.Tick
	Arrival      gametime.Tick
	Passengers   devcode.PerClassAmount
}

type delivery struct {
	Airport string
	Class   world.ServiceClass
	Amount  int
}

// Strategy decides the kit loads and hub purchases for every game hour.
// Flights become known through SCHEDULED updates roughly a day ahead of
// departure and are kept in a calendar keyed by departure tick.
type Strategy struct {
	network    *world.Network
	hub        string
	totalHours int

	calendar concurrent.Map[gametime.Tick, []scheduledFlight]
	seen     concurrent.Map[uuid.UUID, struct{}]
	inbound  concurrent.Map[gametime.Tick, []delivery]

	mtx    sync.RWMutex
	params Params
}

type Option func(s *Strategy)

func WithHub(hub string) Option {
	return func(s *Strategy) {
		s.hub = hub
	}
}

func WithTotalHours(totalHours int) Option {
	return func(s *Strategy) {
		s.totalHours = totalHours
	}
}

func WithParams(params Params) Option {
	return func(s *Strategy) {
		s.params = params
	}
}

func New(network *world.Network, opts ...Option) *Strategy {
	s := &Strategy{
		network:    network,
		hub:        world.HubCode,
		totalHours: gametime.TotalHours,
		calendar:   concurrent.NewMap[gametime.Tick, []scheduledFlight](),
		seen:       concurrent.NewMap[uuid.UUID, struct{}](),
		inbound:    concurrent.NewMap[gametime.Tick, []delivery](),
		params:     DefaultParams(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Strategy) Params() Params {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.params
}

func (s *Strategy) SetParams(params Params) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.params = params
}

// Observe ingests the flight updates of a round result. SCHEDULED events
// populate the departure calendar; duplicate announcements for the same
// flight id are ignored.
func (s *Strategy) Observe(tick gametime.Tick, result devcode.RoundResult) {
	for _, update := range result.FlightUpdates {
		if update.EventType != devcode.EventScheduled {
			continue
		}

		// Loads for tick were already submitted when this result arrives,
		// so a departure at or before tick can never be served.
		departure := update.Departure.Tick()
		if departure <= tick {
			continue
		}

		if _, dup := s.seen.LoadOrStore(update.FlightId, struct{}{}); dup {
			continue
		}

		flight := scheduledFlight{
			Id:           update.FlightId,
			Number:       update.FlightNumber,
			Origin:       update.OriginAirport,
			Destination:  update.DestinationAirport,
			AircraftType: update.AircraftType,
			Departure:    departure,
			Arrival:      update.Arrival.Tick(),
			Passengers:   update.Passengers,
		}

		s.calendar.Compute(departure, func(flights []scheduledFlight, _ bool) ([]scheduledFlight, bool) {
			return append(flights, flight), true
		})
	}
}

// KitLoads returns the load command for every flight departing at tick and
// updates the stock model: loaded kits leave the origin now and re-enter
// stock at the destination after arrival plus per-class processing time.
func (s *Strategy) KitLoads(tick gametime.Tick) []devcode.FlightLoad {
	s.releaseInbound(tick)

	flights, _ := s.calendar.LoadAndDelete(tick)
	if len(flights) == 0 {
		return nil
	}

	params := s.Params()
	loads := make([]devcode.FlightLoad, 0, len(flights))

	for _, flight := range flights {
		var load world.PerClass[int]
		available := s.network.Stock(flight.Origin)

		for _, c := range world.Classes {
			amount := s.kitsFor(flight, c, params)
			amount = min(amount, max(available.Get(c), 0))

			if amount > 0 {
				load.Set(c, amount)
				s.network.DeductStock(flight.Origin, c, amount)
				s.scheduleReturn(flight, c, amount)
			}
		}

		loads = append(loads, devcode.FlightLoad{
			FlightId:   flight.Id,
			LoadedKits: devcode.AmountOf(load),
		})
	}

	return loads
}

func (s *Strategy) kitsFor(flight scheduledFlight, c world.ServiceClass, params Params) int {
	pax := flight.Passengers.PerClass().Get(c)
	amount := pax
	if !params.Endgame {
		amount = buffered(pax, params.BufferFactor)
	}

	if ac, ok := s.network.AircraftType(flight.AircraftType); ok {
		amount = min(amount, ac.KitCapacity.Get(c))
	}

	return amount
}

func (s *Strategy) scheduleReturn(flight scheduledFlight, c world.ServiceClass, amount int) {
	processing := 0
	if dest, ok := s.network.Airport(flight.Destination); ok {
		processing = dest.ProcessingTime.Get(c)
	}

	at := flight.Arrival.Add(processing)
	d := delivery{Airport: flight.Destination, Class: c, Amount: amount}

	s.inbound.Compute(at, func(deliveries []delivery, _ bool) ([]delivery, bool) {
		return append(deliveries, d), true
	})
}

func (s *Strategy) releaseInbound(tick gametime.Tick) {
	deliveries, _ := s.inbound.LoadAndDelete(tick)
	for _, d := range deliveries {
		s.network.AddStock(d.Airport, d.Class, d.Amount)
	}
}

// PurchaseOrders returns the kits to buy at the hub this hour: the
// shortfall between hub stock and forecast hub demand over the purchase
// horizon, capped at free hub capacity. Near the end of the game no
// further kits are bought.
func (s *Strategy) PurchaseOrders(tick gametime.Tick) devcode.PerClassAmount {
	params := s.Params()
	if params.Endgame {
		return devcode.PerClassAmount{}
	}

	horizonHours := int(params.PurchaseHorizonDays * gametime.HoursPerDay)
	if horizonHours <= 0 || s.totalHours-int(tick) <= horizonHours {
		return devcode.PerClassAmount{}
	}

	var demand world.PerClass[int]
	s.calendar.Range(func(departure gametime.Tick, flights []scheduledFlight) bool {
		if departure < tick || departure > tick.Add(horizonHours) {
			return true
		}

		for _, flight := range flights {
			if flight.Origin != s.hub {
				continue
			}

			pax := flight.Passengers.PerClass()
			for _, c := range world.Classes {
				demand.Update(c, func(v int) int { return v + buffered(pax.Get(c), params.BufferFactor) })
			}
		}

		return true
	})

	hub, ok := s.network.Airport(s.hub)
	if !ok {
		return devcode.PerClassAmount{}
	}

	stock := s.network.Stock(s.hub)

	var order world.PerClass[int]
	for _, c := range world.Classes {
		shortfall := demand.Get(c) - stock.Get(c)
		free := hub.Capacity.Get(c) - stock.Get(c)
		amount := max(min(shortfall, free), 0)
		order.Set(c, amount)

		// Count ordered kits as hub stock right away so the next hours
		// don't re-order the same shortfall.
		if amount > 0 {
			s.network.AddStock(s.hub, c, amount)
		}
	}

	return devcode.AmountOf(order)
}

// Pending returns the number of future departures currently known.
func (s *Strategy) Pending() int {
	pending := 0
	s.calendar.Range(func(_ gametime.Tick, flights []scheduledFlight) bool {
		pending += len(flights)
		return true
	})

	return pending
}

func buffered(pax int, factor float64) int {
	return int(math.Ceil(float64(pax) * (1 + factor)))
}
