//go:build integration
// +build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jwebster45206/mapquest/integration/runner"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")

func apiBaseURL() string {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func TestMain(m *testing.M) {
	flag.Parse()
	fmt.Printf("Running MapQuest Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL())
	os.Exit(m.Run())
}

func TestIntegrationSuites(t *testing.T) {
	files, err := discoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	r := runner.NewRunner(apiBaseURL())
	r.ErrorHandlingMode = runner.ErrorHandlingMode(*errFlag)
	r.Logger = func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}

	// Suites share the API's single session, so they run one at a time.
	for _, file := range files {
		suite, err := runner.LoadTestSuite(file)
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		fmt.Printf("\n%s\n", suite.Name)

		result, err := r.RunSuite(context.Background(), suite)
		if err != nil {
			t.Errorf("%s: %v", suite.Name, err)
			continue
		}
		if !result.Passed() {
			t.Errorf("%s: failed", suite.Name)
		}
	}
}

func discoverTestFiles(dir string) ([]string, error) {
	if *caseFlag != "" {
		return []string{filepath.Join(dir, *caseFlag)}, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
