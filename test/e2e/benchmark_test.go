package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// generateRecords creates a large JSON array for benchmarking, seeded
// for reproducible runs.
func generateRecords(tb testing.TB, path string, count int) {
	tb.Helper()
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, count)
	for i := 0; i < count; i++ {
		items[i] = map[string]interface{}{
			"id":       i + 1,
			"name":     fmt.Sprintf("Item %d", i+1),
			"price":    rng.Float64() * 1000,
			"quantity": rng.Intn(100),
			"active":   rng.Intn(2) == 1,
			"tags":     []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":   "bench",
				"priority": rng.Intn(5) + 1,
			},
		}
	}

	data, err := json.Marshal(items)
	if err != nil {
		tb.Fatalf("failed to marshal benchmark data: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatalf("failed to write benchmark data: %v", err)
	}
}

func benchmarkCommand(b *testing.B, count int, args ...string) {
	tempDir := b.TempDir()
	inputFile := filepath.Join(tempDir, "input.json")
	generateRecords(b, inputFile, count)
	outputFile := filepath.Join(tempDir, "output")

	full := append([]string{"run", "../../main.go"}, args...)
	full = append(full, "-i", inputFile, "-o", outputFile)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmd := exec.Command("go", full...)
		if out, err := cmd.CombinedOutput(); err != nil {
			b.Fatalf("command failed: %v: %s", err, out)
		}
	}
}

func BenchmarkFormat_1000Records(b *testing.B) {
	benchmarkCommand(b, 1000, "format", "--indent", "2")
}

func BenchmarkFormatSorted_1000Records(b *testing.B) {
	benchmarkCommand(b, 1000, "format", "--indent", "2", "--sort-keys")
}

func BenchmarkToJSONL_1000Records(b *testing.B) {
	benchmarkCommand(b, 1000, "to-jsonl")
}

func BenchmarkStats_1000Records(b *testing.B) {
	benchmarkCommand(b, 1000, "stats")
}
