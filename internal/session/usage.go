package session

import "math"

// BaselineTokens is the token allowance assumed consumed by the system
// prompt and instructions before any conversation content.
const BaselineTokens = 12000

// TokenUsage counts tokens for one or more model turns.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// IsZero reports whether no usage was recorded.
func (u TokenUsage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0
}

// AccumulateUsage adds a delta onto the running totals.
func AccumulateUsage(current *TokenUsage, delta TokenUsage) TokenUsage {
	base := TokenUsage{}
	if current != nil {
		base = *current
	}
	return TokenUsage{
		InputTokens:  base.InputTokens + delta.InputTokens,
		OutputTokens: base.OutputTokens + delta.OutputTokens,
		TotalTokens:  base.TotalTokens + delta.TotalTokens,
	}
}

// SubtractUsage removes a delta from the running totals, flooring each
// component at zero.
func SubtractUsage(current *TokenUsage, delta *TokenUsage) *TokenUsage {
	if current == nil || delta == nil {
		return current
	}
	result := TokenUsage{
		InputTokens:  maxInt(0, current.InputTokens-delta.InputTokens),
		OutputTokens: maxInt(0, current.OutputTokens-delta.OutputTokens),
		TotalTokens:  maxInt(0, current.TotalTokens-delta.TotalTokens),
	}
	return &result
}

// ContextPercent computes remaining context capacity as a percentage. The
// baseline reservation is excluded from both the window and the usage, so a
// first turn that costs exactly the baseline still reports 100.
func ContextPercent(usage *TokenUsage, contextWindow int) *int {
	if usage == nil || contextWindow <= 0 {
		return nil
	}
	if contextWindow <= BaselineTokens {
		zero := 0
		return &zero
	}
	effectiveWindow := contextWindow - BaselineTokens
	used := maxInt(0, usage.TotalTokens-BaselineTokens)
	remaining := maxInt(0, effectiveWindow-used)
	percent := int(math.Round(float64(remaining) / float64(effectiveWindow) * 100))
	percent = maxInt(0, minInt(100, percent))
	return &percent
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
