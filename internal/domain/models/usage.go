package models

// Usage is one owner's quota snapshot.
type Usage struct {
	UsedBytes  int64   `json:"used_bytes"`
	TotalBytes int64   `json:"total_bytes"`
	Percentage float64 `json:"percentage"`
}

// NewUsage builds a snapshot, deriving the fill percentage.
func NewUsage(usedBytes, totalBytes int64) *Usage {
	u := &Usage{UsedBytes: usedBytes, TotalBytes: totalBytes}
	if totalBytes > 0 {
		u.Percentage = float64(usedBytes) / float64(totalBytes) * 100
	}
	return u
}
