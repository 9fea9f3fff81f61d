package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/world"
)

func TestRecorder_ObservesEngine(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	e := engine.New(world.Default(), engine.DefaultOptions(), logger)
	rec := NewRecorder()
	e.Subscribe(rec)

	_, err := e.StartSession(actor.NewAdventurer("Hero", 2, 1, 40))
	require.NoError(t, err)
	require.NoError(t, e.Purchase("conservatory_apothecary", "Potion"))
	_, err = e.Fight("sheep_meadow_goblin")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.defeats))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.notifications.WithLabelValues(string(engine.ReasonPurchase))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.notifications.WithLabelValues(string(engine.ReasonFight))))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.hitPoints))
	assert.Equal(t, 30.0, testutil.ToFloat64(rec.gold))
}

func TestRecorder_HandlerAndMiddleware(t *testing.T) {
	rec := NewRecorder()

	h := rec.Middleware(func(*http.Request) string { return "/v1/icons/{item}" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/icons/Crown", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("GET", "/v1/icons/{item}", "404")))

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mapquest_http_requests_total")
}
