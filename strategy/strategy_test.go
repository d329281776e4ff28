package strategy

import (
	"github.com/gofrs/uuid/v5"
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/mihaipriboi/HackitAll2025/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func testNetwork() *world.Network {
	return world.NewNetwork(
		map[string]world.Airport{
			"HUB1": {
				Id:             1,
				Code:           "HUB1",
				ProcessingTime: world.PerClass[int]{First: 2, Business: 2, PremiumEconomy: 3, Economy: 4},
				Capacity:       world.PerClass[int]{First: 500, Business: 800, PremiumEconomy: 1000, Economy: 8000},
				InitialStock:   world.PerClass[int]{First: 100, Business: 200, PremiumEconomy: 300, Economy: 4000},
			},
			"OTP": {
				Id:             2,
				Code:           "OTP",
				ProcessingTime: world.PerClass[int]{First: 3, Business: 3, PremiumEconomy: 4, Economy: 5},
				Capacity:       world.PerClass[int]{First: 50, Business: 80, PremiumEconomy: 100, Economy: 200},
				InitialStock:   world.PerClass[int]{First: 10, Business: 20, PremiumEconomy: 30, Economy: 40},
			},
		},
		map[string]world.AircraftType{
			"A320": {
				Id:          1,
				TypeCode:    "A320",
				Seats:       world.PerClass[int]{Business: 12, PremiumEconomy: 24, Economy: 120},
				KitCapacity: world.PerClass[int]{Business: 14, PremiumEconomy: 28, Economy: 140},
			},
		},
		nil,
	)
}

func scheduledUpdate(origin, destination string, departure, arrival gametime.Tick, pax devcode.PerClassAmount) devcode.FlightUpdate {
	return devcode.FlightUpdate{
		FlightId:           uuid.Must(uuid.NewV4()),
		FlightNumber:       "RO101",
		EventType:          devcode.EventScheduled,
		OriginAirport:      origin,
		DestinationAirport: destination,
		AircraftType:       "A320",
		Departure:          devcode.TimeRef{Day: departure.Day(), Hour: departure.Hour()},
		Arrival:            devcode.TimeRef{Day: arrival.Day(), Hour: arrival.Hour()},
		Passengers:         pax,
	}
}

func TestStrategy_KitLoadsFromCalendar(t *testing.T) {
	network := testNetwork()
	s := New(network, WithParams(Params{BufferFactor: 0.1, PurchaseHorizonDays: 2}))

	departure := gametime.New(1, 8)
	update := scheduledUpdate("HUB1", "OTP", departure, gametime.New(1, 11), devcode.PerClassAmount{Business: 10, Economy: 100})
	s.Observe(gametime.New(0, 8), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	assert.Empty(t, s.KitLoads(gametime.New(1, 7)))

	loads := s.KitLoads(departure)
	require.Len(t, loads, 1)
	assert.Equal(t, update.FlightId, loads[0].FlightId)
	// 10 * 1.1 = 11, 100 * 1.1 = 110.
	assert.Equal(t, devcode.PerClassAmount{Business: 11, Economy: 110}, loads[0].LoadedKits)

	stock := network.Stock("HUB1")
	assert.Equal(t, 200-11, stock.Business)
	assert.Equal(t, 4000-110, stock.Economy)

	// Calendar entry is consumed.
	assert.Empty(t, s.KitLoads(departure))
}

func TestStrategy_KitLoadsCappedByAircraft(t *testing.T) {
	s := New(testNetwork())

	departure := gametime.New(2, 10)
	update := scheduledUpdate("HUB1", "OTP", departure, gametime.New(2, 13), devcode.PerClassAmount{Economy: 200})
	s.Observe(gametime.New(1, 10), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	loads := s.KitLoads(departure)
	require.Len(t, loads, 1)
	assert.Equal(t, 140, loads[0].LoadedKits.Economy)
}

func TestStrategy_KitLoadsCappedByStock(t *testing.T) {
	network := testNetwork()
	s := New(network)

	departure := gametime.New(3, 22)
	update := scheduledUpdate("OTP", "HUB1", departure, gametime.New(4, 1), devcode.PerClassAmount{Economy: 120})
	s.Observe(gametime.New(2, 22), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	loads := s.KitLoads(departure)
	require.Len(t, loads, 1)
	// OTP only has 40 economy kits.
	assert.Equal(t, 40, loads[0].LoadedKits.Economy)
	assert.Equal(t, 0, network.Stock("OTP").Economy)
}

func TestStrategy_DuplicateScheduledIgnored(t *testing.T) {
	s := New(testNetwork())

	departure := gametime.New(1, 8)
	update := scheduledUpdate("HUB1", "OTP", departure, gametime.New(1, 11), devcode.PerClassAmount{Economy: 10})
	result := devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update, update}}

	s.Observe(gametime.New(0, 8), result)
	s.Observe(gametime.New(0, 9), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	assert.Len(t, s.KitLoads(departure), 1)
}

func TestStrategy_PastDeparturesDropped(t *testing.T) {
	s := New(testNetwork())

	update := scheduledUpdate("HUB1", "OTP", gametime.New(0, 5), gametime.New(0, 8), devcode.PerClassAmount{Economy: 10})
	s.Observe(gametime.New(0, 6), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	assert.Equal(t, 0, s.Pending())
}

func TestStrategy_SameHourDeparturesDropped(t *testing.T) {
	s := New(testNetwork())

	// Loads for this hour went out before the result came back.
	now := gametime.New(0, 6)
	update := scheduledUpdate("HUB1", "OTP", now, gametime.New(0, 9), devcode.PerClassAmount{Economy: 10})
	s.Observe(now, devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	assert.Equal(t, 0, s.Pending())
	assert.Empty(t, s.KitLoads(now))
}

func TestStrategy_LoadedKitsReturnAfterProcessing(t *testing.T) {
	network := testNetwork()
	s := New(network)

	departure := gametime.New(1, 8)
	arrival := gametime.New(1, 11)
	update := scheduledUpdate("HUB1", "OTP", departure, arrival, devcode.PerClassAmount{Business: 10})
	s.Observe(gametime.New(0, 8), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	loads := s.KitLoads(departure)
	require.Len(t, loads, 1)
	loaded := loads[0].LoadedKits.Business

	// Business processing at OTP takes 3 hours after the 11:00 arrival.
	assert.Equal(t, 20, network.Stock("OTP").Business)
	s.KitLoads(gametime.New(1, 13))
	assert.Equal(t, 20, network.Stock("OTP").Business)
	s.KitLoads(gametime.New(1, 14))
	assert.Equal(t, 20+loaded, network.Stock("OTP").Business)
}

func TestStrategy_PurchaseOrdersCoverShortfall(t *testing.T) {
	network := testNetwork()
	s := New(network, WithParams(Params{BufferFactor: 0, PurchaseHorizonDays: 2}))

	now := gametime.New(0, 8)
	updates := []devcode.FlightUpdate{
		scheduledUpdate("HUB1", "OTP", gametime.New(1, 8), gametime.New(1, 11), devcode.PerClassAmount{Economy: 3000}),
		scheduledUpdate("HUB1", "OTP", gametime.New(1, 14), gametime.New(1, 17), devcode.PerClassAmount{Economy: 2000}),
		// Outstation departures don't create hub demand.
		scheduledUpdate("OTP", "HUB1", gametime.New(1, 20), gametime.New(1, 23), devcode.PerClassAmount{Economy: 500}),
	}
	s.Observe(now, devcode.RoundResult{FlightUpdates: updates})

	orders := s.PurchaseOrders(now)
	// Demand 5000 against 4000 in stock.
	assert.Equal(t, 1000, orders.Economy)
	assert.Equal(t, 0, orders.Business)

	// The order counts as stock, no re-order next hour.
	assert.Equal(t, 5000, network.Stock("HUB1").Economy)
	assert.Equal(t, 0, s.PurchaseOrders(now.Next()).Economy)
}

func TestStrategy_PurchaseOrdersCappedByCapacity(t *testing.T) {
	network := testNetwork()
	s := New(network, WithParams(Params{BufferFactor: 0, PurchaseHorizonDays: 2}))

	now := gametime.New(0, 8)
	update := scheduledUpdate("HUB1", "OTP", gametime.New(1, 8), gametime.New(1, 11), devcode.PerClassAmount{Economy: 20000})
	s.Observe(now, devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	// Capacity 8000, stock 4000: at most 4000 fit.
	assert.Equal(t, 4000, s.PurchaseOrders(now).Economy)
}

func TestStrategy_NoPurchasesNearGameEnd(t *testing.T) {
	s := New(testNetwork(), WithTotalHours(720), WithParams(Params{BufferFactor: 0, PurchaseHorizonDays: 2}))

	late := gametime.New(28, 0)
	update := scheduledUpdate("HUB1", "OTP", gametime.New(28, 8), gametime.New(28, 11), devcode.PerClassAmount{Economy: 20000})
	s.Observe(late, devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	assert.Equal(t, devcode.PerClassAmount{}, s.PurchaseOrders(late))
}

func TestStrategy_EndgameParams(t *testing.T) {
	s := New(testNetwork())
	s.SetParams(Params{BufferFactor: 0.5, PurchaseHorizonDays: 2, Endgame: true})

	departure := gametime.New(1, 8)
	update := scheduledUpdate("HUB1", "OTP", departure, gametime.New(1, 11), devcode.PerClassAmount{Economy: 100})
	s.Observe(gametime.New(0, 8), devcode.RoundResult{FlightUpdates: []devcode.FlightUpdate{update}})

	loads := s.KitLoads(departure)
	require.Len(t, loads, 1)
	// No buffer in endgame, exactly the passenger count.
	assert.Equal(t, 100, loads[0].LoadedKits.Economy)
	assert.Equal(t, devcode.PerClassAmount{}, s.PurchaseOrders(departure))
}
