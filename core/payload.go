package core

// Payload is the structured value passed into and produced by agents. Values
// are restricted to the JSON shape: string, float64, bool, nil, []any and
// nested map[string]any. Anything that survives encoding/json round-trips is
// a valid payload value; agents must not smuggle richer Go types through it.
type Payload map[string]any

// Clone returns a deep copy of the payload. Nested maps and slices are copied
// recursively so the caller can mutate the result without aliasing the
// original. A nil payload clones to nil.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Payload:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return val
	}
}

// Merge combines base and overlay into a new payload. Keys present in overlay
// always win over base; neither argument is mutated. This implements the
// step-input-over-context precedence rule: explicit step input overrides
// continuity data inferred from earlier steps.
func Merge(base, overlay Payload) Payload {
	if base == nil && overlay == nil {
		return Payload{}
	}
	out := base.Clone()
	if out == nil {
		out = make(Payload, len(overlay))
	}
	for k, v := range overlay {
		out[k] = cloneValue(v)
	}
	return out
}

// GetString returns the string value stored under key, or "" if the key is
// absent or holds a non-string value.
func (p Payload) GetString(key string) string {
	s, _ := p[key].(string)
	return s
}

// GetMap returns the nested map stored under key, or nil.
func (p Payload) GetMap(key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}
