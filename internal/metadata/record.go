// Package metadata extracts candidate recording records from the XML
// metadata documents the call recorder writes beside its audio blobs.
package metadata

// Distinguished attribute names on a Media element.
const (
	AttrFileName = "FileName"
	AttrType     = "Type"
	AttrResult   = "Result"
)

// ResultSuccess is the Result value the recorder writes once the audio for a
// record has been migrated into blob storage.
const ResultSuccess = "Success"

// Record is one candidate recording described by a metadata document.
type Record struct {
	FileName  string
	MediaType string
	Result    string
	Fields    Fields
}

// Migrated reports whether the record's audio is available in storage.
func (r Record) Migrated() bool {
	return r.Result == ResultSuccess
}

// Fields maps child element names to their text content, preserving the
// order in which each name first appeared.
type Fields struct {
	keys   []string
	values map[string]string
}

// Get returns the value for key, or "" when absent.
func (f Fields) Get(key string) string {
	return f.values[key]
}

// Lookup returns the value for key and whether it was present.
func (f Fields) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns field names in first-occurrence order.
func (f Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// add stores value under key unless key is already present.
func (f *Fields) add(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; ok {
		return
	}
	f.keys = append(f.keys, key)
	f.values[key] = value
}
