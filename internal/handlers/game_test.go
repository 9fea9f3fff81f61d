package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestRouter(t *testing.T) (http.Handler, *engine.Engine) {
	t.Helper()
	e := engine.New(world.Default(), engine.DefaultOptions(), testLogger())
	r := chi.NewRouter()
	r.Mount("/v1", NewGameHandler(e, nil, testLogger()).Routes())
	return r, e
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func positionOf(t *testing.T, e *engine.Engine, id string) geo.Coordinate {
	t.Helper()
	for _, p := range e.PointsOfInterest() {
		if p.ID == id {
			return p.Coordinate
		}
	}
	t.Fatalf("no point %q", id)
	return geo.Coordinate{}
}

func TestGameHandler_StartSession(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedName   string
		expectedHearts string
		expectedGold   string
		expectedField  string
	}{
		{
			name:           "defaults",
			expectedStatus: http.StatusCreated,
			expectedName:   "Hero",
			expectedHearts: "❤️❤️❤️❤️❤️",
			expectedGold:   "💰40",
		},
		{
			name:           "overrides",
			body:           `{"name":"Ada","hit_points":4,"gold":100}`,
			expectedStatus: http.StatusCreated,
			expectedName:   "Ada",
			expectedHearts: "❤️❤️",
			expectedGold:   "💰100",
		},
		{
			name:           "zero hit points",
			body:           `{"hit_points":0}`,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "hit_points",
		},
		{
			name:           "negative gold",
			body:           `{"gold":-1}`,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "gold",
		},
		{
			name:           "unknown field",
			body:           `{"mana":3}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			rr := do(t, router, http.MethodPost, "/v1/session", tt.body)

			require.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			if tt.expectedStatus != http.StatusCreated {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error)
				if tt.expectedField != "" {
					assert.Contains(t, resp.Fields, tt.expectedField)
				}
				return
			}

			var resp SnapshotResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.NotNil(t, resp.Adventurer)
			assert.Equal(t, tt.expectedName, resp.Adventurer.Name)
			assert.Equal(t, tt.expectedHearts, resp.Hearts)
			assert.Equal(t, tt.expectedGold, resp.Gold)
		})
	}
}

func TestGameHandler_RequiresSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/v1/position", `{"lat":40.77,"lon":-73.96}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, router, http.MethodPost, "/v1/decline", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, router, http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "☠️", resp.Hearts)
}

func TestGameHandler_Position(t *testing.T) {
	router, e := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/v1/session", "").Code)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"missing lat", `{"lon":-73.96}`, http.StatusBadRequest},
		{"latitude out of range", `{"lat":95,"lon":-73.96}`, http.StatusBadRequest},
		{"not json", `lat=1`, http.StatusBadRequest},
		{"zero is a valid coordinate", `{"lat":0,"lon":0}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/v1/position", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
		})
	}

	goblin := positionOf(t, e, "sheep_meadow_goblin")
	rr := do(t, router, http.MethodPost, "/v1/position", fmt.Sprintf(`{"lat":%v,"lon":%v}`, goblin.Lat, goblin.Lon))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp PositionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "sheep_meadow_goblin", resp.Events[0].PointID)
	assert.Equal(t, world.KindMonster, resp.Events[0].Kind)
	require.NotNil(t, resp.Snapshot.Encounter)
	assert.Equal(t, "Goblin", resp.Snapshot.Encounter.Name)
}

func TestGameHandler_Fight(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/v1/session", "").Code)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedResult string
	}{
		{"missing point", `{}`, http.StatusBadRequest, ""},
		{"unknown point", `{"point_id":"central_zoo"}`, http.StatusNotFound, ""},
		{"not a monster", `{"point_id":"strawberry_fields_wizard"}`, http.StatusBadRequest, ""},
		{"win", `{"point_id":"sheep_meadow_goblin"}`, http.StatusOK, "adventurer_won"},
		{"already defeated", `{"point_id":"sheep_meadow_goblin"}`, http.StatusConflict, ""},
		{"tie", `{"point_id":"bethesda_rat"}`, http.StatusOK, "tie"},
		{"loss", `{"point_id":"belvedere_dragon"}`, http.StatusOK, "adventurer_lost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/v1/fight", tt.body)
			require.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			if tt.expectedResult == "" {
				return
			}
			var raw map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
			assert.Equal(t, tt.expectedResult, raw["result"])
		})
	}

	rr := do(t, router, http.MethodGet, "/v1/session", "")
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 55, resp.Adventurer.Gold)
	assert.Equal(t, 8, resp.Adventurer.HitPoints)
}

func TestGameHandler_DeclineAndPurchase(t *testing.T) {
	router, e := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/v1/session", "").Code)

	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/v1/decline", "").Code)

	shop := positionOf(t, e, "columbus_circle_armory")
	rr := do(t, router, http.MethodPost, "/v1/position", fmt.Sprintf(`{"lat":%v,"lon":%v}`, shop.Lat, shop.Lon))
	require.Equal(t, http.StatusOK, rr.Code)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"missing item", `{"store_id":"columbus_circle_armory"}`, http.StatusBadRequest},
		{"not a store", `{"store_id":"bethesda_rat","item":"Sword"}`, http.StatusBadRequest},
		{"unknown store", `{"store_id":"macys","item":"Sword"}`, http.StatusNotFound},
		{"not stocked", `{"store_id":"columbus_circle_armory","item":"Potion"}`, http.StatusConflict},
		{"buy sword", `{"store_id":"columbus_circle_armory","item":"Sword"}`, http.StatusOK},
		{"too poor for another", `{"store_id":"columbus_circle_armory","item":"Sword"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/v1/purchase", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
		})
	}

	snap := e.Snapshot()
	assert.Equal(t, 10, snap.Adventurer.Gold)
	assert.Equal(t, 1, snap.Adventurer.CountOf("Sword"))

	rr = do(t, router, http.MethodPost, "/v1/decline", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, e.Snapshot().Encounter)
}

func TestGameHandler_ReadEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/v1/points", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var points []*world.PointOfInterest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &points))
	assert.Len(t, points, 10)

	rr = do(t, router, http.MethodGet, "/v1/reservoir", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var reservoir geo.Polygon
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reservoir))
	assert.Len(t, reservoir, 8)

	rr = do(t, router, http.MethodGet, "/v1/icons/Battle%20Axe", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var icon IconResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &icon))
	assert.Equal(t, "axe", icon.Icon)

	rr = do(t, router, http.MethodGet, "/v1/icons/Crown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
