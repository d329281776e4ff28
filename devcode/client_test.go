package devcode

import (
	"context"
	"github.com/gofrs/uuid/v5"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeServer struct {
	t          *testing.T
	sessionId  string
	active     bool
	started    int
	ended      int
	rounds     []RoundRequest
	playStatus []int
	playBody   string
}

func (fs *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/session/start", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(fs.t, "TEST_KEY", r.Header.Get("API-KEY"))

		if fs.active {
			w.WriteHeader(http.StatusConflict)
			return
		}

		fs.active = true
		fs.started++
		_, _ = w.Write([]byte(`"` + fs.sessionId + `"`))
	})
	mux.HandleFunc("POST /api/v1/session/end", func(w http.ResponseWriter, r *http.Request) {
		fs.active = false
		fs.ended++
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/v1/play/round", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(fs.t, fs.sessionId, r.Header.Get("SESSION-ID"))

		var req RoundRequest
		require.NoError(fs.t, json.NewDecoder(r.Body).Decode(&req))
		fs.rounds = append(fs.rounds, req)

		if len(fs.playStatus) > 0 {
			status := fs.playStatus[0]
			fs.playStatus = fs.playStatus[1:]

			if status != http.StatusOK {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(fs.playBody))
				return
			}
		}

		_, _ = w.Write([]byte(`{
			"totalCost": 1250.5,
			"penalties": [{"reason": "kit shortage", "penalty": 100}],
			"flightUpdates": [{
				"flightId": "8c2e01be-59c5-4e11-b210-6c817e79b1e7",
				"flightNumber": "RO101",
				"eventType": "SCHEDULED",
				"originAirport": "HUB1",
				"destinationAirport": "OTP",
				"aircraftType": "A320",
				"departure": {"day": 1, "hour": 8},
				"arrival": {"day": 1, "hour": 11},
				"passengers": {"first": 0, "business": 10, "premiumEconomy": 20, "economy": 100}
			}]
		}`))
	})

	return mux
}

func newTestClient(t *testing.T, fs *fakeServer) *Client {
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)

	return NewClient("TEST_KEY", WithBaseUrl(srv.URL), WithHttpClient(srv.Client()))
}

func TestClient_StartSession(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-1"}
	c := newTestClient(t, fs)

	sessionId, err := c.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sessionId)
	assert.Equal(t, "sess-1", c.SessionId())
}

func TestClient_StartSessionRestartsStale(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-2", active: true}
	c := newTestClient(t, fs)

	sessionId, err := c.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-2", sessionId)
	assert.Equal(t, 1, fs.ended)
	assert.Equal(t, 1, fs.started)
}

func TestClient_StartSessionEmptyId(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: ""}
	c := newTestClient(t, fs)

	_, err := c.StartSession(context.Background())
	assert.ErrorIs(t, err, ErrEmptySessionId)
}

func TestClient_PlayRoundRequiresSession(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-3"}
	c := newTestClient(t, fs)

	_, err := c.PlayRound(context.Background(), gametime.New(0, 0), nil, PerClassAmount{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_PlayRound(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-4"}
	c := newTestClient(t, fs)

	_, err := c.StartSession(context.Background())
	require.NoError(t, err)

	flightId := uuid.Must(uuid.FromString("8c2e01be-59c5-4e11-b210-6c817e79b1e7"))
	loads := []FlightLoad{{
		FlightId:   flightId,
		LoadedKits: PerClassAmount{Business: 10, Economy: 100},
	}}

	result, err := c.PlayRound(context.Background(), gametime.New(1, 8), loads, PerClassAmount{Economy: 50})
	require.NoError(t, err)

	assert.Equal(t, 1250.5, result.TotalCost)
	require.Len(t, result.Penalties, 1)
	assert.Equal(t, "kit shortage", result.Penalties[0].Reason)
	require.Len(t, result.FlightUpdates, 1)

	update := result.FlightUpdates[0]
	assert.Equal(t, flightId, update.FlightId)
	assert.Equal(t, EventScheduled, update.EventType)
	assert.Equal(t, gametime.New(1, 8), update.Departure.Tick())
	assert.Equal(t, 100, update.Passengers.Economy)

	require.Len(t, fs.rounds, 1)
	assert.Equal(t, 1, fs.rounds[0].Day)
	assert.Equal(t, 8, fs.rounds[0].Hour)
	assert.Equal(t, 50, fs.rounds[0].KitPurchasingOrders.Economy)
}

func TestClient_PlayRoundValidationError(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-5", playStatus: []int{http.StatusBadRequest}, playBody: "flight not departing this hour"}
	c := newTestClient(t, fs)

	_, err := c.StartSession(context.Background())
	require.NoError(t, err)

	_, err = c.PlayRound(context.Background(), gametime.New(0, 3), nil, PerClassAmount{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, gametime.New(0, 3), vErr.Tick)
	assert.Equal(t, "flight not departing this hour", vErr.Body)
}

func TestClient_PlayRoundRetriesRetryableStatus(t *testing.T) {
	fs := &fakeServer{t: t, sessionId: "sess-6", playStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusOK}}
	c := newTestClient(t, fs)

	_, err := c.StartSession(context.Background())
	require.NoError(t, err)

	result, err := c.PlayRound(context.Background(), gametime.New(0, 0), nil, PerClassAmount{})
	require.NoError(t, err)
	assert.Equal(t, 1250.5, result.TotalCost)
	assert.Len(t, fs.rounds, 3)
}
