package workflows

import "fmt"

// ViolationCode classifies why a transition was refused
type ViolationCode string

const (
	ViolationUnknownStatus     ViolationCode = "unknown_status"
	ViolationInvalidTransition ViolationCode = "invalid_transition"
	ViolationInsufficientRole  ViolationCode = "insufficient_role"
	ViolationThresholdExceeded ViolationCode = "threshold_exceeded"
	ViolationRiskBlocked       ViolationCode = "risk_blocked"
	ViolationMissingField      ViolationCode = "missing_field"
)

// Violation describes a single validation failure
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// Result is the outcome of validating a proposed transition.
// An empty violation list means the transition is legal; validation
// failures are returned as data, never as errors.
type Result struct {
	Violations []Violation `json:"violations"`
}

// IsValid reports whether the transition passed every check
func (r Result) IsValid() bool {
	return len(r.Violations) == 0
}

// Messages returns the violation messages for display
func (r Result) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Rule describes the outgoing edge set of a single status
type Rule[S ~string] struct {
	// Action names the operation that moves the entity out of this status
	Action string
	// Next lists the legal target statuses, in display order
	Next []S
	// RequiredRole is the minimum role allowed to leave this status, if any
	RequiredRole Role
	// RequiresReason marks transitions out of this status as needing a free-text reason
	RequiresReason bool
	// Final marks a terminal status; Next must be empty
	Final bool
}

// Guard evaluates entity-specific preconditions for a legal transition
// and returns the violations it finds. Guards run only for (from, to)
// pairs the transition table already allows.
type Guard[S ~string, C any] func(from, to S, actor Role, ctx C) []Violation

// StateMachine enforces status transitions for one entity type.
// The rule table is fixed at construction and never mutated, so a
// machine is safe for concurrent use.
type StateMachine[S ~string, C any] struct {
	initial S
	rules   map[S]Rule[S]
	roles   RoleHierarchy
	guards  []Guard[S, C]
}

// NewStateMachine builds a state machine and verifies the rule table is
// closed: every target status has its own rule entry, and final statuses
// have no outgoing edges.
func NewStateMachine[S ~string, C any](initial S, rules map[S]Rule[S], roles RoleHierarchy, guards ...Guard[S, C]) (*StateMachine[S, C], error) {
	if _, ok := rules[initial]; !ok {
		return nil, fmt.Errorf("initial status %q has no rule entry", string(initial))
	}
	for status, rule := range rules {
		if rule.Final && len(rule.Next) > 0 {
			return nil, fmt.Errorf("final status %q declares outgoing transitions", string(status))
		}
		for _, next := range rule.Next {
			if _, ok := rules[next]; !ok {
				return nil, fmt.Errorf("status %q transitions to unknown status %q", string(status), string(next))
			}
		}
	}
	return &StateMachine[S, C]{
		initial: initial,
		rules:   rules,
		roles:   roles,
		guards:  guards,
	}, nil
}

// Initial returns the status assigned to newly created entities
func (m *StateMachine[S, C]) Initial() S {
	return m.initial
}

// IsKnown reports whether the status belongs to this entity's registry
func (m *StateMachine[S, C]) IsKnown(status S) bool {
	_, ok := m.rules[status]
	return ok
}

// IsFinal reports whether the status permits no further transitions
func (m *StateMachine[S, C]) IsFinal(status S) bool {
	return m.rules[status].Final
}

// Rule returns the rule for a status, or false if the status is unknown
func (m *StateMachine[S, C]) Rule(status S) (Rule[S], bool) {
	rule, ok := m.rules[status]
	return rule, ok
}

// Statuses returns every status the machine knows about
func (m *StateMachine[S, C]) Statuses() []S {
	statuses := make([]S, 0, len(m.rules))
	for status := range m.rules {
		statuses = append(statuses, status)
	}
	return statuses
}

// NextStatuses returns the legal target statuses from the given status.
// Unknown and final statuses both yield an empty list.
func (m *StateMachine[S, C]) NextStatuses(status S) []S {
	rule, ok := m.rules[status]
	if !ok || len(rule.Next) == 0 {
		return []S{}
	}
	next := make([]S, len(rule.Next))
	copy(next, rule.Next)
	return next
}

// Roles exposes the hierarchy the machine authorizes against
func (m *StateMachine[S, C]) Roles() RoleHierarchy {
	return m.roles
}

// Validate decides whether the proposed transition is legal for the
// given actor and context. All applicable violations are collected so
// callers can surface every problem at once instead of one per attempt.
func (m *StateMachine[S, C]) Validate(from, to S, actor Role, ctx C) Result {
	var violations []Violation

	rule, fromKnown := m.rules[from]
	if !fromKnown {
		violations = append(violations, Violation{
			Code:    ViolationUnknownStatus,
			Message: fmt.Sprintf("Unknown status %q", string(from)),
		})
	}
	if _, toKnown := m.rules[to]; !toKnown {
		violations = append(violations, Violation{
			Code:    ViolationUnknownStatus,
			Message: fmt.Sprintf("Unknown status %q", string(to)),
		})
	}
	if len(violations) > 0 {
		return Result{Violations: violations}
	}

	allowed := false
	for _, next := range rule.Next {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		violations = append(violations, Violation{
			Code:    ViolationInvalidTransition,
			Message: fmt.Sprintf("Invalid status transition from %s to %s", string(from), string(to)),
		})
		return Result{Violations: violations}
	}

	if rule.RequiredRole != "" && !m.roles.AtLeast(actor, rule.RequiredRole) {
		violations = append(violations, Violation{
			Code:    ViolationInsufficientRole,
			Message: fmt.Sprintf("Insufficient permissions: %s requires %s role or above", rule.Action, string(rule.RequiredRole)),
		})
	}
	for _, guard := range m.guards {
		violations = append(violations, guard(from, to, actor, ctx)...)
	}

	return Result{Violations: violations}
}
