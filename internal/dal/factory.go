package dal

// The backend selector is split between this Options type and the concrete
// constructor in internal/dal/factory, keeping the contract package free of
// backend imports.

// Options selects which backend the factory constructs. The choice is made
// exactly once at process start; callers receive the resulting DAL value by
// injection and never branch on backend type.
type Options struct {
	// UseInMemory forces the in-memory backend regardless of DatabaseURL.
	UseInMemory bool

	// DatabaseURL is the PostgreSQL connection string for the persistent
	// backend. An empty value falls back to in-memory.
	DatabaseURL string
}

// InMemory reports whether the options resolve to the in-memory backend.
func (o Options) InMemory() bool {
	return o.UseInMemory || o.DatabaseURL == ""
}
