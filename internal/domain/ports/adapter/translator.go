package adapter

// Translator renders user-facing messages by key in the configured locale.
type Translator interface {
	T(key string, args ...interface{}) string
}
