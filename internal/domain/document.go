package domain

// Document is an opaque structured payload. Case data, supplementary data
// and search projections are all documents.
type Document map[string]any

// Clone returns a deep copy of d. Nested maps and slices are copied;
// scalar values are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// Has reports whether key is present at the top level.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Only returns a copy of d restricted to the given top-level keys.
func (d Document) Only(keys ...string) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(keys))
	for _, k := range keys {
		if v, ok := d[k]; ok {
			out[k] = cloneValue(v)
		}
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case Document:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
