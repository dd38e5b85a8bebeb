package parlang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// conformanceSuite is one YAML file under testdata: a set of programs
// in assembly form, inputs, and the outcomes the machine must produce
type conformanceSuite struct {
	Name  string            `yaml:"name"`
	Tests []conformanceTest `yaml:"tests"`
}

type conformanceTest struct {
	Name    string             `yaml:"name"`
	Program string             `yaml:"program"`
	Input   string             `yaml:"input"`
	Expect  conformanceExpect  `yaml:"expect"`
	Limits  *conformanceLimits `yaml:"limits,omitempty"`
}

type conformanceExpect struct {
	// Cursor and FFP are pointers so that zero positions can be
	// asserted without making every test spell them out
	Cursor *int `yaml:"cursor,omitempty"`
	FFP    *int `yaml:"ffp,omitempty"`

	// Error is the expected error kind name; empty means success
	Error string `yaml:"error,omitempty"`

	// Tree is the compact rendering of the expected value
	Tree string `yaml:"tree,omitempty"`
}

type conformanceLimits struct {
	MaxSteps  int `yaml:"max_steps"`
	MaxGrowth int `yaml:"max_growth"`
}

func TestConformance(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		suite := loadConformanceSuite(t, path)
		t.Run(suite.Name, func(t *testing.T) {
			for _, test := range suite.Tests {
				t.Run(test.Name, func(t *testing.T) {
					runConformanceTest(t, test)
				})
			}
		})
	}
}

func loadConformanceSuite(t *testing.T, path string) conformanceSuite {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var suite conformanceSuite
	require.NoError(t, yaml.Unmarshal(data, &suite), path)
	return suite
}

func runConformanceTest(t *testing.T, test conformanceTest) {
	t.Helper()

	program, err := Assemble(test.Program)
	require.NoError(t, err)

	cfg := DefaultConfig()
	if test.Limits != nil {
		cfg.Limits.MaxSteps = test.Limits.MaxSteps
		cfg.Limits.MaxGrowth = test.Limits.MaxGrowth
	}

	machine := NewMachineWithConfig(program, cfg)
	value, cursor, err := machine.Match(test.Input)

	if test.Expect.Error != "" {
		var matchErr *MatchError
		require.ErrorAs(t, err, &matchErr)
		assert.Equal(t, test.Expect.Error, matchErr.Kind.String())
		if test.Expect.FFP != nil {
			assert.Equal(t, *test.Expect.FFP, matchErr.FFP)
		}
		return
	}

	require.NoError(t, err)
	if test.Expect.Cursor != nil {
		assert.Equal(t, *test.Expect.Cursor, cursor)
	}
	if test.Expect.FFP != nil {
		assert.Equal(t, *test.Expect.FFP, machine.FFP())
	}
	if test.Expect.Tree != "" {
		require.NotNil(t, value)
		assert.Equal(t, test.Expect.Tree, value.String())
	}
}
