package runner

import "time"

// Actions a step can take against the API.
const (
	ActionStart    = "start"
	ActionMove     = "move"
	ActionFight    = "fight"
	ActionDecline  = "decline"
	ActionPurchase = "purchase"
)

// TestSuite is a scripted walk through a world.
type TestSuite struct {
	Name  string     `yaml:"name"`
	Steps []TestStep `yaml:"steps"`
}

// TestStep is one API call and what should hold afterwards.
//
// Point names the target of a move, fight or purchase. Moves go to the
// point's coordinate unless Lat/Lon are given.
type TestStep struct {
	Name   string       `yaml:"name,omitempty"`
	Action string       `yaml:"action"`
	Point  string       `yaml:"point,omitempty"`
	Item   string       `yaml:"item,omitempty"`
	Lat    *float64     `yaml:"lat,omitempty"`
	Lon    *float64     `yaml:"lon,omitempty"`
	Expect Expectations `yaml:"expect"`
}

// Expectations are checked against the step's response. Unset fields are
// not checked.
type Expectations struct {
	Status      int      `yaml:"status,omitempty"` // defaults to 200, or 201 for start
	Events      []string `yaml:"events,omitempty"` // point ids, in order
	NoEvents    bool     `yaml:"no_events,omitempty"`
	Result      string   `yaml:"result,omitempty"`
	HitPoints   *int     `yaml:"hit_points,omitempty"`
	Gold        *int     `yaml:"gold,omitempty"`
	Inventory   []string `yaml:"inventory,omitempty"` // order independent
	Encounter   *string  `yaml:"encounter,omitempty"` // "" means none open
	SessionOver *bool    `yaml:"session_over,omitempty"`
}

// TestResult is the outcome of one step.
type TestResult struct {
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestRunResult collects a whole suite.
type TestRunResult struct {
	Suite    string
	Results  []TestResult
	Duration time.Duration
}

// Passed reports whether every step succeeded.
func (r TestRunResult) Passed() bool {
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}

type itemView struct {
	Name string `json:"name"`
}

type snapshotView struct {
	Adventurer *struct {
		HitPoints int        `json:"hit_points"`
		Gold      int        `json:"gold"`
		Inventory []itemView `json:"inventory"`
	} `json:"adventurer"`
	Encounter *struct {
		PointID string `json:"point_id"`
	} `json:"encounter"`
	SessionOver bool `json:"session_over"`
}

// apiResponse covers every game endpoint: position and fight nest the
// snapshot, the rest return it at the top level.
type apiResponse struct {
	snapshotView
	Snapshot *snapshotView `json:"snapshot"`
	Events   []struct {
		PointID string `json:"point_id"`
	} `json:"events"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

func (r *apiResponse) state() *snapshotView {
	if r.Snapshot != nil {
		return r.Snapshot
	}
	return &r.snapshotView
}

type pointView struct {
	ID         string `json:"id"`
	Coordinate struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinate"`
}
