package model

// Well-known run context keys.
const (
	KeyQuery        = "query"
	KeyFilePath     = "file_path"
	KeyDocumentText = "document_text"
)

// TaskKey is the key under which a finished task's output is recorded.
func TaskKey(task string) string { return "task:" + task }

// RunContext accumulates values across the tasks of one pipeline run.
// It is owned by a single run and is not safe for concurrent use.
type RunContext struct {
	values map[string]string
	order  []string
}

func NewRunContext(query, filePath string) *RunContext {
	rc := &RunContext{values: map[string]string{}}
	rc.Set(KeyQuery, query)
	rc.Set(KeyFilePath, filePath)
	return rc
}

func (rc *RunContext) Set(key, value string) {
	if _, ok := rc.values[key]; !ok {
		rc.order = append(rc.order, key)
	}
	rc.values[key] = value
}

func (rc *RunContext) Get(key string) (string, bool) {
	v, ok := rc.values[key]
	return v, ok
}

// Value returns the value for key or "" when absent.
func (rc *RunContext) Value(key string) string {
	return rc.values[key]
}

// Keys returns keys in insertion order.
func (rc *RunContext) Keys() []string {
	out := make([]string, len(rc.order))
	copy(out, rc.order)
	return out
}
