package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Offset int
	Limit  int
}

// Normalize enforces the configured default and maximum limits and clamps
// negative offsets to zero.
func (p Params) Normalize() Params {
	out := p
	if out.Offset < 0 {
		out.Offset = 0
	}
	out.Limit = NormalizeLimit(out.Limit)
	return out
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
