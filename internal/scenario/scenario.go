// Package scenario replays scripted input writes against a session and
// reports which outputs each write recomputed.
package scenario

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pengviz/internal/session"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

var (
	// ErrExpectation indicates a step whose outcome differed from its script.
	ErrExpectation = errors.New("scenario: expectation failed")

	// ErrInvalid indicates a malformed scenario file.
	ErrInvalid = errors.New("scenario: invalid")
)

// Scenario is a scripted sequence of input writes.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Inputs      map[string]string `yaml:"inputs,omitempty"`
	Steps       []Step            `yaml:"steps"`
}

// Step writes one input. A nil expectation is not checked; an empty
// ExpectRecompute list asserts that nothing recomputes.
type Step struct {
	Input           string    `yaml:"input"`
	Value           string    `yaml:"value"`
	ExpectRecompute *[]string `yaml:"expect_recompute,omitempty"`
	ExpectRows      *int      `yaml:"expect_rows,omitempty"`
}

// StepResult is what happened when a step ran.
type StepResult struct {
	Step       int      `json:"step"`
	Input      string   `json:"input"`
	Value      string   `json:"value"`
	Changed    bool     `json:"changed"`
	Recomputed []string `json:"recomputed"`
	Rows       int      `json:"rows"`
}

type Report struct {
	Scenario string         `json:"scenario"`
	Steps    []StepResult   `json:"steps"`
	Runs     map[string]int `json:"runs"`
}

// ExpectationError describes the first failed step.
type ExpectationError struct {
	Step int
	Want string
	Got  string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: step %d: want %s, got %s", ErrExpectation, e.Step, e.Want, e.Got)
}

func (e *ExpectationError) Unwrap() error { return ErrExpectation }

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads a scenario file, or a built-in scenario when path has no
// extension and no such file exists.
func Load(p string) (*Scenario, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || path.Ext(p) != "" {
			return nil, err
		}
		data, err = builtin.ReadFile("scenarios/" + p + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", p, os.ErrNotExist)
		}
	}
	return Parse(data)
}

// Builtin lists the names of the embedded scenarios.
func Builtin() []string {
	entries, _ := builtin.ReadDir("scenarios")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: %s has no steps", ErrInvalid, sc.Name)
	}
	known := make(map[string]bool)
	for _, n := range session.InputNames() {
		known[n] = true
	}
	for name := range sc.Inputs {
		if !known[name] {
			return fmt.Errorf("%w: inputs: %w: %s", ErrInvalid, session.ErrUnknownInput, name)
		}
	}
	for i, st := range sc.Steps {
		if !known[st.Input] {
			return fmt.Errorf("%w: step %d: %w: %s", ErrInvalid, i+1, session.ErrUnknownInput, st.Input)
		}
	}
	return nil
}

// Run flushes sess, applies the scenario's starting inputs, then executes
// each step: write, flush, compare. It stops at the first failed
// expectation and returns the report so far.
func Run(ctx context.Context, sess *session.Session, sc *Scenario, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &Report{Scenario: sc.Name}

	if len(sc.Inputs) > 0 {
		in, err := session.ParseInputs(sess.Inputs(), sc.Inputs)
		if err != nil {
			return report, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if _, err := sess.Apply(in); err != nil {
			return report, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	sess.Flush()

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		changed, err := sess.Set(st.Input, st.Value)
		if err != nil {
			return report, fmt.Errorf("step %d: %w", i+1, err)
		}
		res := StepResult{
			Step:       i + 1,
			Input:      st.Input,
			Value:      st.Value,
			Changed:    changed,
			Recomputed: sess.Flush(),
			Rows:       sess.Filtered().Len(),
		}
		if res.Recomputed == nil {
			res.Recomputed = []string{}
		}
		report.Steps = append(report.Steps, res)
		report.Runs = sess.Runs()

		logger.Info("scenario step",
			zap.String("scenario", sc.Name),
			zap.Int("step", res.Step),
			zap.String("input", st.Input),
			zap.String("value", st.Value),
			zap.Strings("recomputed", res.Recomputed))

		if st.ExpectRecompute != nil && !sameSet(*st.ExpectRecompute, res.Recomputed) {
			return report, &ExpectationError{
				Step: res.Step,
				Want: "recompute " + fmt.Sprint(*st.ExpectRecompute),
				Got:  fmt.Sprint(res.Recomputed),
			}
		}
		if st.ExpectRows != nil && *st.ExpectRows != res.Rows {
			return report, &ExpectationError{
				Step: res.Step,
				Want: fmt.Sprintf("%d rows", *st.ExpectRows),
				Got:  fmt.Sprintf("%d rows", res.Rows),
			}
		}
	}
	report.Runs = sess.Runs()
	return report, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
