package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/combat"
	"github.com/jwebster45206/mapquest/pkg/encounter"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

// maxBodyBytes caps request bodies; every request here is a few fields.
const maxBodyBytes = 1 << 16

// GameEngine is the part of engine.Engine the HTTP API drives.
type GameEngine interface {
	StartSession(a *actor.Adventurer) (uuid.UUID, error)
	UpdatePosition(pos geo.Coordinate) ([]encounter.Event, error)
	Fight(poiID string) (combat.Result, error)
	Decline() error
	Purchase(storeID, itemName string) error
	LookupIcon(item actor.Item) (string, bool)
	Snapshot() engine.Snapshot
	PointsOfInterest() []*world.PointOfInterest
	Reservoir() geo.Polygon
}

type StartSessionRequest struct {
	Name      string `json:"name" validate:"omitempty,max=40"`
	HitPoints *int   `json:"hit_points" validate:"omitempty,gt=0"`
	Strength  *int   `json:"strength" validate:"omitempty,gte=0"`
	Gold      *int   `json:"gold" validate:"omitempty,gte=0"`
}

type PositionRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

type FightRequest struct {
	PointID string `json:"point_id" validate:"required"`
}

type PurchaseRequest struct {
	StoreID string `json:"store_id" validate:"required"`
	Item    string `json:"item" validate:"required,max=80"`
}

type EventView struct {
	PointID  string     `json:"point_id"`
	Kind     world.Kind `json:"kind"`
	Name     string     `json:"name"`
	Distance float64    `json:"distance_meters"`
}

type PositionResponse struct {
	Events   []EventView     `json:"events"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

type FightResponse struct {
	Result   combat.Result   `json:"result"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

type IconResponse struct {
	Item string `json:"item"`
	Icon string `json:"icon"`
}

// SnapshotResponse adds the HUD strings to a snapshot.
type SnapshotResponse struct {
	engine.Snapshot
	Hearts string `json:"hearts"`
	Gold   string `json:"gold"`
}

// GameHandler exposes engine operations as JSON endpoints.
type GameHandler struct {
	engine    GameEngine
	hero      func() *actor.Adventurer
	validator *Validator
	logger    *slog.Logger
}

// NewGameHandler creates the handler. hero supplies the default adventurer
// for POST /v1/session; request fields override its stats.
func NewGameHandler(e GameEngine, hero func() *actor.Adventurer, logger *slog.Logger) *GameHandler {
	if hero == nil {
		hero = actor.NewDefaultAdventurer
	}
	return &GameHandler{
		engine:    e,
		hero:      hero,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Routes returns the /v1 game routes.
func (h *GameHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/session", h.handleStartSession)
	r.Get("/session", h.handleSnapshot)
	r.Get("/points", h.handlePoints)
	r.Get("/reservoir", h.handleReservoir)
	r.Post("/position", h.handlePosition)
	r.Post("/fight", h.handleFight)
	r.Post("/decline", h.handleDecline)
	r.Post("/purchase", h.handlePurchase)
	r.Get("/icons/{item}", h.handleIcon)
	return r
}

func (h *GameHandler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}

	a := h.hero()
	if req.Name != "" {
		a.Name = req.Name
	}
	if req.HitPoints != nil {
		a.HitPoints = *req.HitPoints
	}
	if req.Strength != nil {
		a.Strength = *req.Strength
	}
	if req.Gold != nil {
		a.Gold = *req.Gold
	}

	id, err := h.engine.StartSession(a)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	h.logger.Info("Session created via API", "session_id", id.String(), "adventurer", a.Name)
	writeJSON(w, h.logger, http.StatusCreated, withHUD(h.engine.Snapshot()))
}

func (h *GameHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, withHUD(h.engine.Snapshot()))
}

func (h *GameHandler) handlePoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.engine.PointsOfInterest())
}

func (h *GameHandler) handleReservoir(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.engine.Reservoir())
}

func (h *GameHandler) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	events, err := h.engine.UpdatePosition(geo.Coordinate{Lat: *req.Lat, Lon: *req.Lon})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		views = append(views, EventView{
			PointID:  ev.Point.ID,
			Kind:     ev.Point.Kind,
			Name:     ev.Point.Name(),
			Distance: ev.Distance,
		})
	}
	writeJSON(w, h.logger, http.StatusOK, PositionResponse{Events: views, Snapshot: h.engine.Snapshot()})
}

func (h *GameHandler) handleFight(w http.ResponseWriter, r *http.Request) {
	var req FightRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.engine.Fight(req.PointID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, FightResponse{Result: res, Snapshot: h.engine.Snapshot()})
}

func (h *GameHandler) handleDecline(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Decline(); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, withHUD(h.engine.Snapshot()))
}

func (h *GameHandler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.engine.Purchase(req.StoreID, req.Item); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, withHUD(h.engine.Snapshot()))
}

func (h *GameHandler) handleIcon(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	icon, ok := h.engine.LookupIcon(actor.Item{Name: item})
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "No icon for item "+item)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, IconResponse{Item: item, Icon: icon})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *GameHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	if err := h.validator.ValidateStruct(dst); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}

func withHUD(s engine.Snapshot) SnapshotResponse {
	return SnapshotResponse{Snapshot: s, Hearts: s.Hearts(), Gold: s.Gold()}
}
