package rex

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

type scenario struct {
	Pattern  string   `yaml:"pattern"`
	Input    string   `yaml:"input"`
	Match    bool     `yaml:"match"`
	Captures []string `yaml:"captures"`
}

// TestScenarios runs the fixtures in testdata/scenarios.yaml, the way the
// teacher's own test262_test.go drives its conformance suite from a
// YAML/JSON fixture tree rather than inline Go literals.
func TestScenarios(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios.yaml"))
	assert.NilError(t, err)

	var scenarios []scenario
	assert.NilError(t, yaml.Unmarshal(data, &scenarios))
	assert.Assert(t, len(scenarios) > 0)

	for _, sc := range scenarios {
		re, err := Compile(sc.Pattern)
		assert.NilError(t, err)

		got := re.PartialMatch([]byte(sc.Input))
		assert.Equal(t, got, sc.Match)

		if !sc.Match || sc.Captures == nil {
			continue
		}

		caps := re.FindCaptures([]byte(sc.Input))
		assert.Assert(t, caps != nil)
		for i, want := range sc.Captures {
			got, ok := caps.SliceAt(i)
			assert.Equal(t, ok, true)
			assert.Equal(t, string(got), want)
		}
	}
}
