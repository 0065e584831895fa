package canvas

// FilterValue is either a categorical allow-list or a numeric range. A value
// with no categories and no defined bounds is trivial and ignored by the
// regeneration trigger.
type FilterValue struct {
	Categories []string `json:"categories,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
}

// IsTrivial reports whether the value constrains nothing.
func (v FilterValue) IsTrivial() bool {
	return len(v.Categories) == 0 && v.Min == nil && v.Max == nil
}

func (v FilterValue) clone() FilterValue {
	out := FilterValue{Categories: append([]string(nil), v.Categories...)}
	if v.Min != nil {
		m := *v.Min
		out.Min = &m
	}
	if v.Max != nil {
		m := *v.Max
		out.Max = &m
	}
	return out
}

// FilterState maps column names to their active filter values.
type FilterState map[string]FilterValue

// HasActiveValues reports whether at least one column carries a non-trivial
// value. Only then does a filter change trigger chart regeneration.
func (f FilterState) HasActiveValues() bool {
	for _, v := range f {
		if !v.IsTrivial() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, never nil.
func (f FilterState) Clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = v.clone()
	}
	return out
}
