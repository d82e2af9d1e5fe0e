package model

// Health is the per-backend probe status. A false value means the
// probe failed; probes never raise.
type Health struct {
	Store bool `json:"store"`
	Cache bool `json:"cache"`
}

// OK reports whether the required backend (the store) is healthy. The
// cache is best-effort and does not gate readiness.
func (h Health) OK() bool {
	return h.Store
}
