package domain

// GiB is the divisor used for the memory report.
const GiB = 1024 * 1024 * 1024

// MemoryStats is a snapshot of virtual memory usage, in bytes.
type MemoryStats struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// TotalGB returns Total expressed in GiB.
func (m MemoryStats) TotalGB() float64 { return float64(m.Total) / GiB }

// AvailableGB returns Available expressed in GiB.
func (m MemoryStats) AvailableGB() float64 { return float64(m.Available) / GiB }

// UsedGB returns Used expressed in GiB.
func (m MemoryStats) UsedGB() float64 { return float64(m.Used) / GiB }
