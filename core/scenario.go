package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// ScenarioConfig is the top-level JSON document describing a run: how long
// to simulate, which RNG seed to use, and free-form scenario parameters
// that the embedding application's block-wiring code consults when
// constructing Source spawn schedules, Gate release modes, and so on.
//
// Grounded on the teacher's scenario_loader.go shape: an unexported wire
// struct decoded via encoding/json, then copied into the typed config the
// rest of the program uses, with a human-readable summary returned for
// logging at startup.
type ScenarioConfig struct {
	Name     string
	MaxTicks int64
	Seed     int64
	Params   map[string]json.RawMessage
}

type scenarioWire struct {
	Name     string                     `json:"name"`
	MaxTicks int64                      `json:"max_ticks"`
	Seed     int64                      `json:"seed"`
	Params   map[string]json.RawMessage `json:"params"`
}

// LoadScenarioConfig decodes a ScenarioConfig from r. max_ticks must be
// positive; a zero or negative value is a misconfiguration, since a
// scenario that can never tick is almost always a JSON typo rather than an
// intentional no-op run.
func LoadScenarioConfig(r io.Reader) (ScenarioConfig, error) {
	var wire scenarioWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return ScenarioConfig{}, fmt.Errorf("decode scenario config: %w", err)
	}
	if wire.MaxTicks <= 0 {
		return ScenarioConfig{}, fmt.Errorf("scenario config: max_ticks must be positive, got %d", wire.MaxTicks)
	}
	return ScenarioConfig{
		Name:     wire.Name,
		MaxTicks: wire.MaxTicks,
		Seed:     wire.Seed,
		Params:   wire.Params,
	}, nil
}

// Param decodes the named scenario parameter into dst. It returns false
// (no error) if the key is absent, so callers can apply their own default.
func (c ScenarioConfig) Param(key string, dst any) (bool, error) {
	raw, ok := c.Params[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("scenario config: param %q: %w", key, err)
	}
	return true, nil
}

// Summary renders a one-line description suitable for a startup log entry.
func (c ScenarioConfig) Summary() string {
	return fmt.Sprintf("scenario %q: max_ticks=%d seed=%d params=%d", c.Name, c.MaxTicks, c.Seed, len(c.Params))
}
