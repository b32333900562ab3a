package fee

// Filter rewrites a loaded fee configuration. Returning false drops the fee,
// which the resolver then treats as "no fee configured".
type Filter func(cfg Config) (Config, bool)

// Filters run in the order they were added. The zero value is the identity.
type Filters []Filter

// Add returns a new chain with f appended. The receiver is left untouched,
// so several chains can be extended from a shared base.
func (fs Filters) Add(f Filter) Filters {
	out := make(Filters, len(fs), len(fs)+1)
	copy(out, fs)
	return append(out, f)
}

// Apply passes cfg through every filter, stopping at the first that drops it.
func (fs Filters) Apply(cfg Config) (Config, bool) {
	for _, f := range fs {
		var ok bool
		if cfg, ok = f(cfg); !ok {
			return Config{}, false
		}
	}
	return cfg, true
}
