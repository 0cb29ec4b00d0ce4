package backends

// Caches nothing. Used when caching is disabled or the cache can't be set up.
type NoopBackend struct{}

func (b NoopBackend) Name() string {
	return "noop"
}

func (b NoopBackend) Open() error {
	return nil
}

func (b NoopBackend) Close() error {
	return nil
}

func (b NoopBackend) Get(path string) (map[string]int, bool) {
	return nil, false
}

func (b NoopBackend) Add(path string, counts map[string]int) {}

func (b NoopBackend) Clear() error {
	return nil
}
