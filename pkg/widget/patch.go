package widget

import (
	"encoding/json"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// ApplyPatch shallow-merges patch into a copy of cfg. Keys are the JSON
// field names of the config variant; a key replaces the whole field
// (nested objects such as event-feed filters are not merged). The "id" and
// "type" keys are ignored. Unknown keys are dropped.
//
// cfg itself is never modified.
func ApplyPatch(cfg Config, patch map[string]any) (Config, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "nil widget config")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode widget config")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode widget config")
	}

	for k, v := range patch {
		if k == "id" || k == "type" {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "encode patch field %q", k)
		}
		fields[k] = raw
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode patched config")
	}
	base := cfg.Common()
	out, err := New(base.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "apply patch to %s config", base.Type)
	}
	out.Common().ID = base.ID
	out.Common().Type = base.Type
	return out, nil
}
