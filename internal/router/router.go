// Package router turns a task descriptor into a routing decision: which
// agents run, in what mode, and which prefetches the downstream stages
// should issue first. The router never executes anything itself.
package router

import (
	"fmt"
	"strings"

	"insight-router/internal/classifier"
	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/common/logger"
	"insight-router/internal/common/metrics"
	"insight-router/internal/models"
)

// sequentialIntentMin is the intent count above which complex work is
// ordered instead of fanned out.
const sequentialIntentMin = 3

type Router struct {
	classifier *classifier.Classifier
	provider   *classifier.Provider
	registry   []string
	registered map[string]bool
	logger     logger.Logger
}

// New builds a router over a fixed agent registry. Registry entries are
// intent ids; only registered intents are ever routed to.
func New(cls *classifier.Classifier, provider *classifier.Provider, registry []string, log logger.Logger) *Router {
	registered := make(map[string]bool, len(registry))
	for _, id := range registry {
		registered[id] = true
	}
	return &Router{
		classifier: cls,
		provider:   provider,
		registry:   registry,
		registered: registered,
		logger:     log.With(map[string]interface{}{"component": "router"}),
	}
}

// Route resolves a task descriptor to agents, an execution mode and
// prefetch specs. A descriptor with an explicit intent bypasses
// classification entirely; otherwise the free text is classified first.
//
// UNROUTABLE_INTENT is returned when nothing in the registry can serve the
// request. Classification errors (no intent, low confidence) pass through
// unchanged so callers can distinguish "ask the user to rephrase" from
// "no agent exists for this".
func (r *Router) Route(desc models.TaskDescriptor) (*models.RoutingDecision, error) {
	if desc.Intent != "" {
		return r.routeExplicit(desc)
	}

	result, err := r.classifier.Classify(desc.Text)
	if err != nil {
		return nil, err
	}

	decision, err := r.routeClassified(desc, result)
	if err != nil {
		return nil, err
	}

	r.logger.Info("task routed", map[string]interface{}{
		"requestId":  desc.RequestID,
		"agents":     decision.Agents,
		"mode":       string(decision.Mode),
		"complexity": string(result.Complexity),
	})
	return decision, nil
}

// routeExplicit honors a caller-specified intent. The registry is still
// authoritative: an explicit intent outside it is unroutable, not trusted.
func (r *Router) routeExplicit(desc models.TaskDescriptor) (*models.RoutingDecision, error) {
	if !r.registered[desc.Intent] {
		metrics.ClassificationsFailed.WithLabelValues(string(commonerrors.ErrCodeUnroutable)).Inc()
		return nil, commonerrors.NewUnroutableError([]string{desc.Intent})
	}

	snap := r.provider.Current()
	entry, ok := snap.Catalog.Get(desc.Intent)
	if !ok {
		metrics.ClassificationsFailed.WithLabelValues(string(commonerrors.ErrCodeUnroutable)).Inc()
		return nil, commonerrors.NewUnroutableError([]string{desc.Intent})
	}

	decision := &models.RoutingDecision{
		Agents:   []string{desc.Intent},
		Mode:     models.ModeSingle,
		Prefetch: prefetchFromParams(entry, desc.Params),
		Notes:    []string{fmt.Sprintf("explicit intent %q supplied by caller", desc.Intent)},
	}

	metrics.RoutingDecisions.WithLabelValues(string(decision.Mode)).Inc()
	r.logger.Info("task routed", map[string]interface{}{
		"requestId": desc.RequestID,
		"agents":    decision.Agents,
		"mode":      string(decision.Mode),
		"explicit":  true,
	})
	return decision, nil
}

// routeClassified filters the classified intents against the registry in
// rank order, then selects mode and prefetches.
func (r *Router) routeClassified(desc models.TaskDescriptor, result *models.Classification) (*models.RoutingDecision, error) {
	agents := make([]string, 0, len(result.Intents))
	var dropped []string
	for _, intent := range result.Intents {
		if r.registered[intent] {
			agents = append(agents, intent)
		} else {
			dropped = append(dropped, intent)
		}
	}

	if len(agents) == 0 {
		metrics.ClassificationsFailed.WithLabelValues(string(commonerrors.ErrCodeUnroutable)).Inc()
		return nil, commonerrors.NewUnroutableError(result.Intents)
	}

	decision := &models.RoutingDecision{
		Agents:   agents,
		Mode:     selectMode(result.Complexity, len(agents)),
		Prefetch: r.buildPrefetch(agents, result.Entities),
		Notes:    append(result.Reasons[:len(result.Reasons):len(result.Reasons)], modeNote(result.Complexity, len(agents))),
	}
	if len(dropped) > 0 {
		decision.Notes = append(decision.Notes,
			fmt.Sprintf("intents without a registered agent were dropped: %s", strings.Join(dropped, ", ")))
	}

	metrics.RoutingDecisions.WithLabelValues(string(decision.Mode)).Inc()
	return decision, nil
}

// selectMode picks the execution mode. Crisis always fans out in parallel,
// even for a single agent, so the check precedes the single-agent rule.
func selectMode(complexity models.Complexity, agentCount int) models.ExecutionMode {
	switch {
	case complexity == models.ComplexityCrisis:
		return models.ModeParallel
	case complexity == models.ComplexitySimple || agentCount == 1:
		return models.ModeSingle
	case complexity == models.ComplexityComplex && agentCount > sequentialIntentMin:
		return models.ModeSequential
	default:
		return models.ModeParallel
	}
}

func modeNote(complexity models.Complexity, agentCount int) string {
	mode := selectMode(complexity, agentCount)
	return fmt.Sprintf("%s complexity with %d agent(s) -> %s execution", complexity, agentCount, mode)
}
