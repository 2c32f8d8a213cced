package log

const (
	FieldKeyPrefix = "prefix"
	FieldKeyVars   = "vars"
)

// Fields type, used to pass to `WithFields`.
type Fields map[string]any
