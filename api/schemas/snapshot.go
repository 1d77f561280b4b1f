package schemas

import "time"

// -- Snapshot Mode and Options --

// SnapshotMode selects the shape of the captured page description.
type SnapshotMode string

const (
	// ModeOutline produces a flat list of interactive elements only.
	ModeOutline SnapshotMode = "outline"
	// ModeDomLite produces a pruned, depth bounded hierarchy that preserves
	// the structural context around interactive elements.
	ModeDomLite SnapshotMode = "dom-lite"
)

// DefaultMaxDepth bounds the dom-lite hierarchy when the caller does not
// supply an explicit limit.
const DefaultMaxDepth = 10

// SnapshotOptions controls a single snapshot capture.
type SnapshotOptions struct {
	Mode        SnapshotMode `json:"mode"`
	VisibleOnly bool         `json:"visibleOnly"`
	// MaxDepth only constrains dom-lite traversal. Zero means "root only";
	// a negative value selects DefaultMaxDepth.
	MaxDepth int `json:"maxDepth"`
}

// Normalize fills in defaults so downstream components never have to guess.
func (o SnapshotOptions) Normalize() SnapshotOptions {
	if o.Mode != ModeDomLite {
		o.Mode = ModeOutline
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// -- Snapshot Node Model --

// ElementRect is a viewport relative bounding box in integer pixels.
// Width and height are never negative.
type ElementRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ElementState carries the interaction and form state of an element. Every
// field is independently optional; absence means "not applicable to this
// element", not "false".
type ElementState struct {
	Editable *bool   `json:"editable,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`
	Checked  *bool   `json:"checked,omitempty"`
	Selected *bool   `json:"selected,omitempty"`
	Expanded *bool   `json:"expanded,omitempty"`
	Hidden   *bool   `json:"hidden,omitempty"`
	Focused  *bool   `json:"focused,omitempty"`
	Value    *string `json:"value,omitempty"`
}

// IsZero reports whether no state field is set at all.
func (s ElementState) IsZero() bool {
	return s.Editable == nil && s.Disabled == nil && s.Checked == nil &&
		s.Selected == nil && s.Expanded == nil && s.Hidden == nil &&
		s.Focused == nil && s.Value == nil
}

// SnapshotNode describes one element of the captured page. Selector resolves
// to exactly this element at capture time while the document is unchanged.
// Role and Name are set on full variant nodes only; Level and Parent appear
// only in dom-lite mode.
type SnapshotNode struct {
	Role     string        `json:"role,omitempty"`
	Name     string        `json:"name,omitempty"`
	Selector string        `json:"selector"`
	Rect     ElementRect   `json:"rect"`
	State    *ElementState `json:"state,omitempty"`

	TagName     string `json:"tagName,omitempty"`
	ID          string `json:"id,omitempty"`
	ClassName   string `json:"className,omitempty"`
	Href        string `json:"href,omitempty"`
	Src         string `json:"src,omitempty"`
	Alt         string `json:"alt,omitempty"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	AriaLabel   string `json:"ariaLabel,omitempty"`
	AriaRole    string `json:"ariaRole,omitempty"`

	Level  *int   `json:"level,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// -- Result Envelope --

// PerformanceInfo carries purely diagnostic traversal metrics. Absence of any
// of this data must never fail a snapshot.
type PerformanceInfo struct {
	NodesScanned int     `json:"nodesScanned,omitempty"`
	NodesEmitted int     `json:"nodesEmitted,omitempty"`
	TraversalMs  float64 `json:"traversalMs,omitempty"`
	ProcessingMs float64 `json:"processingMs,omitempty"`
	PeakMemoryKB int64   `json:"peakMemoryKb,omitempty"`
}

// SnapshotMeta describes the capture context of a result.
type SnapshotMeta struct {
	URL         string           `json:"url,omitempty"`
	Title       string           `json:"title,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	DurationMs  float64          `json:"durationMs"`
	VisibleOnly bool             `json:"visibleOnly"`
	MaxDepth    *int             `json:"maxDepth,omitempty"`
	Performance *PerformanceInfo `json:"performance,omitempty"`
	// InvocationID correlates log lines of a single capture.
	InvocationID string `json:"invocationId,omitempty"`
}

// SnapshotResult is the canonical envelope returned to the caller. It is
// constructed fresh per invocation and never persisted; ownership transfers
// to the caller on return.
type SnapshotResult struct {
	OK    bool           `json:"ok"`
	Cmd   string         `json:"cmd"`
	Nodes []SnapshotNode `json:"nodes"`
	Meta  *SnapshotMeta  `json:"meta,omitempty"`
	Error string         `json:"error,omitempty"`
}

// -- Execution Strategy --

// ExecStrategy selects how the resilience coordinator drives the channel.
type ExecStrategy string

const (
	// StrategyRobust escalates primary -> alternate targeting -> reduced
	// script until a non-ambiguous result is obtained. The default.
	StrategyRobust ExecStrategy = "robust"
	// StrategyLegacy submits once via the primary path; the first result,
	// success or failure, is final.
	StrategyLegacy ExecStrategy = "legacy"
)

// ScriptVariant identifies which traversal script a channel attempt carries.
type ScriptVariant string

const (
	// VariantFull is the complete engine: uniqueness caches, accessibility
	// and state extraction.
	VariantFull ScriptVariant = "full"
	// VariantReduced skips uniqueness caching and accessibility/state work,
	// emitting only tag, rect and a simple path based selector. Used as the
	// last resilience tier and by simple mode.
	VariantReduced ScriptVariant = "reduced"
)
