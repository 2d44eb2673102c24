package widget

import (
	"encoding/json"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// MarshalConfig encodes cfg with every field, including its type tag.
func MarshalConfig(cfg Config) ([]byte, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "nil widget config")
	}
	return json.Marshal(cfg)
}

// UnmarshalConfig decodes a config, choosing the variant from its "type" field.
func UnmarshalConfig(data []byte) (Config, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse widget config")
	}
	cfg, err := New(head.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s config", head.Type)
	}
	return cfg, nil
}

// UnmarshalJSON decodes an instance whose config variant is selected by the
// config's "type" field.
func (in *Instance) UnmarshalJSON(data []byte) error {
	var raw struct {
		Config json.RawMessage `json:"config"`
		Layout Layout          `json:"layout"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cfg, err := UnmarshalConfig(raw.Config)
	if err != nil {
		return err
	}
	in.Config = cfg
	in.Layout = raw.Layout
	return nil
}
