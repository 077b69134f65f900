package core

// Config is a flat string-keyed configuration map, typically assembled from
// environment variables. It is consumed read-only at service construction
// time; providers read only their own namespaced keys and ignore the rest.
type Config map[string]string

// Get retrieves a configuration value by key.
func (c Config) Get(key string) string {
	return c[key]
}

// GetDefault retrieves a configuration value, falling back to def when the
// key is absent or empty.
func (c Config) GetDefault(key, def string) string {
	if v := c[key]; v != "" {
		return v
	}
	return def
}

// Has reports whether the key is present with a non-empty value.
func (c Config) Has(key string) bool {
	return c[key] != ""
}
