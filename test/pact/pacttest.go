//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "fetch-dog-service"
	ConsumerName = "dog-finder-portal"

	StateBreedsSeeded  = "dog breeds are seeded"
	StateDogsSeeded    = "dogs d1 and d2 exist"
	StateAuthenticated = "the session is authenticated"
)

const (
	ExampleName  = "Ada Lovelace"
	ExampleEmail = "ada@example.com"

	ExistingDogID = "d1"
	OtherDogID    = "d2"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDogPayload provides stable dog data for pact interactions.
func ExampleDogPayload() map[string]any {
	return map[string]any{
		"id":       ExistingDogID,
		"img":      "https://example.pact/dogs/rex.jpg",
		"name":     "Rex",
		"age":      3,
		"zip_code": "10001",
		"breed":    "Akita",
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
