// internal/models/routing.go
package models

// ExecutionMode tells the downstream agent executor how to run the selected
// agents.
type ExecutionMode string

const (
	ModeSingle     ExecutionMode = "single"
	ModeParallel   ExecutionMode = "parallel"
	ModeSequential ExecutionMode = "sequential"
)

// PrefetchSpec declares a data fetch the downstream stages should perform
// before the agents run. It is never executed here.
type PrefetchSpec struct {
	FunctionName string                 `json:"functionName"`
	Params       map[string]interface{} `json:"params"`
}

// RoutingDecision is the routing output handed to the agent executor.
// Agents is always a subset of the registry the caller supplied.
type RoutingDecision struct {
	Agents   []string       `json:"agents"`
	Mode     ExecutionMode  `json:"mode"`
	Prefetch []PrefetchSpec `json:"prefetch"`
	Notes    []string       `json:"notes,omitempty"`
}

// TaskDescriptor is the programmatic boundary consumed from callers: either
// an explicit intent with parameters, or free natural-language text. The
// identifiers are opaque and passed through unmodified for traceability.
type TaskDescriptor struct {
	RequestID string                 `json:"requestId"`
	CallerID  string                 `json:"callerId,omitempty"`
	Intent    string                 `json:"intent,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Text      string                 `json:"text,omitempty"`
}
