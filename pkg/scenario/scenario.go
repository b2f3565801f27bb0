package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/lockstep"
	"github.com/aretw0/lockstep/pkg/domain"
)

// Settings carries the per-script session configuration. All fields are
// optional; an empty value keeps the session default.
type Settings struct {
	// Timeout is the driver-side wait bound in time.ParseDuration form,
	// e.g. "500ms".
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
	// Print is the verbosity: "none", "in-out", "failures" or "all".
	Print string `yaml:"print" mapstructure:"print"`
	// Cancel is the cancellation policy: "never", "at-mismatch" or
	// "always".
	Cancel string `yaml:"cancel" mapstructure:"cancel"`
}

// Options translates the settings into session options.
func (st Settings) Options() ([]lockstep.Option, error) {
	var opts []lockstep.Option

	if st.Timeout != "" {
		d, err := time.ParseDuration(st.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid timeout: %q is not positive", st.Timeout)
		}
		opts = append(opts, lockstep.WithTimeout(d))
	}

	v, err := domain.ParseVerbosity(st.Print)
	if err != nil {
		return nil, err
	}
	opts = append(opts, lockstep.WithVerbosity(v))

	m, err := domain.ParseCancelMode(st.Cancel)
	if err != nil {
		return nil, err
	}
	opts = append(opts, lockstep.WithCancelMode(m))

	return opts, nil
}

// Step is one exchange of a script. Exactly one of the expectation
// fields (Expect, ExpectList, ExpectExit) may be set; Send can stand
// alone or combine with any of them.
type Step struct {
	// Send is the input line fed to the program.
	Send *string `mapstructure:"send"`
	// Expect is the output line the program must print next.
	Expect *string `mapstructure:"expect"`
	// ExpectList is a sequence of output lines the program must print.
	ExpectList []string `mapstructure:"expect_list"`
	// ExpectExit requires the program to terminate as its next action.
	ExpectExit bool `mapstructure:"expect_exit"`
	// Prefix compares Expect/ExpectList entries as line prefixes.
	Prefix bool `mapstructure:"prefix"`
	// AnyOrder accepts the ExpectList lines in any order.
	AnyOrder bool `mapstructure:"any_order"`
	// Message replaces the default report message when the step fails.
	Message string `mapstructure:"message"`
}

// Script is a parsed scenario file.
type Script struct {
	Name     string
	Settings Settings
	Steps    []Step
}

// scriptFile is the raw YAML shape. Steps stay generic maps so that
// unknown keys can be rejected per step with a useful position.
type scriptFile struct {
	Name     string           `yaml:"name"`
	Settings Settings         `yaml:"settings"`
	Steps    []map[string]any `yaml:"steps"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Script, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	script := &Script{Name: file.Name, Settings: file.Settings}
	for i, raw := range file.Steps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		script.Steps = append(script.Steps, step)
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}

func decodeStep(raw map[string]any) (Step, error) {
	var step Step
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &step,
		ErrorUnused: true,
	})
	if err != nil {
		return Step{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Step{}, err
	}
	return step, nil
}

// Validate checks the script's settings and the shape of every step.
func (s *Script) Validate() error {
	if _, err := s.Settings.Options(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	expectations := 0
	if st.Expect != nil {
		expectations++
	}
	if st.ExpectList != nil {
		expectations++
	}
	if st.ExpectExit {
		expectations++
	}
	if expectations > 1 {
		return fmt.Errorf("expect, expect_list and expect_exit are mutually exclusive")
	}
	if expectations == 0 && st.Send == nil {
		return fmt.Errorf("step does nothing; set send or an expectation")
	}
	if st.Prefix && st.Expect == nil && st.ExpectList == nil {
		return fmt.Errorf("prefix requires expect or expect_list")
	}
	if st.AnyOrder && st.ExpectList == nil {
		return fmt.Errorf("any_order requires expect_list")
	}
	if st.ExpectList != nil && len(st.ExpectList) == 0 {
		return fmt.Errorf("expect_list must not be empty")
	}
	return nil
}
