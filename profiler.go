package gi2d

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler records CPU time per packing stage and per-frame counters.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0, 8),
	}
}

func (p *Profiler) BeginScope(name string) {
	if p == nil {
		return
	}
	p.StartTimes[name] = time.Now()
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	if p == nil {
		return
	}
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	if p == nil {
		return
	}
	p.Counts[name] = count
}

// Reset zeroes timings and keeps the scope order.
func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("GI packing (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("\nCounts:\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}
	return sb.String()
}
