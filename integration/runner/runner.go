package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted walkthroughs against a running MapQuest API.
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode

	points map[string]pointView
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	if len(suite.Steps) == 0 {
		return TestSuite{}, fmt.Errorf("test file %s has no steps", filename)
	}
	return suite, nil
}

// RunSuite executes every step of suite in order. The first step should
// start a session; the suite shares the API's single session.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Suite:   suite.Name,
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	if err := r.loadPoints(ctx); err != nil {
		return result, err
	}

	for i, step := range suite.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d: %s %s", i+1, step.Action, step.Point)
		}

		stepStart := time.Now()
		err := r.runStep(ctx, step)
		res := TestResult{
			StepName: name,
			Success:  err == nil,
			Error:    err,
			Duration: time.Since(stepStart),
		}
		result.Results = append(result.Results, res)
		r.log("  %s %s (%s)", mark(res.Success), name, res.Duration.Round(time.Millisecond))
		if err != nil {
			r.log("      %v", err)
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, step TestStep) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var (
		path       string
		body       any
		wantStatus = http.StatusOK
	)

	switch step.Action {
	case ActionStart:
		path, body, wantStatus = "/v1/session", map[string]any{}, http.StatusCreated
	case ActionMove:
		lat, lon, err := r.target(step)
		if err != nil {
			return err
		}
		path, body = "/v1/position", map[string]float64{"lat": lat, "lon": lon}
	case ActionFight:
		path, body = "/v1/fight", map[string]string{"point_id": step.Point}
	case ActionDecline:
		path = "/v1/decline"
	case ActionPurchase:
		path, body = "/v1/purchase", map[string]string{"store_id": step.Point, "item": step.Item}
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if step.Expect.Status != 0 {
		wantStatus = step.Expect.Status
	}

	status, resp, err := r.post(ctx, path, body)
	if err != nil {
		return err
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d (%s)", wantStatus, status, resp.Error)
	}
	if status >= 300 {
		return nil
	}
	return check(step.Expect, resp)
}

func (r *Runner) target(step TestStep) (float64, float64, error) {
	if step.Lat != nil && step.Lon != nil {
		return *step.Lat, *step.Lon, nil
	}
	p, ok := r.points[step.Point]
	if !ok {
		return 0, 0, fmt.Errorf("unknown point %q", step.Point)
	}
	return p.Coordinate.Lat, p.Coordinate.Lon, nil
}

func check(want Expectations, resp *apiResponse) error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if want.Events != nil || want.NoEvents {
		got := make([]string, len(resp.Events))
		for i, ev := range resp.Events {
			got[i] = ev.PointID
		}
		if !slices.Equal(got, want.Events) && !(want.NoEvents && len(got) == 0) {
			fail("events: expected %v, got %v", want.Events, got)
		}
	}
	if want.Result != "" && resp.Result != want.Result {
		fail("result: expected %q, got %q", want.Result, resp.Result)
	}

	s := resp.state()
	if s.Adventurer == nil && (want.HitPoints != nil || want.Gold != nil || want.Inventory != nil) {
		fail("response has no adventurer")
	} else if s.Adventurer != nil {
		if want.HitPoints != nil && s.Adventurer.HitPoints != *want.HitPoints {
			fail("hit_points: expected %d, got %d", *want.HitPoints, s.Adventurer.HitPoints)
		}
		if want.Gold != nil && s.Adventurer.Gold != *want.Gold {
			fail("gold: expected %d, got %d", *want.Gold, s.Adventurer.Gold)
		}
		if want.Inventory != nil {
			got := make([]string, len(s.Adventurer.Inventory))
			for i, it := range s.Adventurer.Inventory {
				got[i] = it.Name
			}
			slices.Sort(got)
			exp := slices.Clone(want.Inventory)
			slices.Sort(exp)
			if !slices.Equal(got, exp) {
				fail("inventory: expected %v, got %v", exp, got)
			}
		}
	}
	if want.Encounter != nil {
		got := ""
		if s.Encounter != nil {
			got = s.Encounter.PointID
		}
		if got != *want.Encounter {
			fail("encounter: expected %q, got %q", *want.Encounter, got)
		}
	}
	if want.SessionOver != nil && s.SessionOver != *want.SessionOver {
		fail("session_over: expected %v, got %v", *want.SessionOver, s.SessionOver)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func (r *Runner) loadPoints(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/v1/points", nil)
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to list points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to list points: status %d", resp.StatusCode)
	}

	var points []pointView
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return fmt.Errorf("failed to decode points: %w", err)
	}
	r.points = make(map[string]pointView, len(points))
	for _, p := range points {
		r.points[p.ID] = p
	}
	return nil
}

func (r *Runner) post(ctx context.Context, path string, body any) (int, *apiResponse, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("POST %s: failed to decode response: %w", path, err)
	}
	return resp.StatusCode, &out, nil
}

func (r *Runner) log(format string, args ...any) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
