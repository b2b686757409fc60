package workflows

// Category buckets statuses by lifecycle phase for filtering and display
type Category string

const (
	CategoryInitial    Category = "initial"
	CategoryApproval   Category = "approval"
	CategoryActive     Category = "active"
	CategoryCompletion Category = "completion"
	CategoryProblem    Category = "problem"
)

// Classification groups an entity type's statuses into workflow
// categories and carries the presentation lookups built on top of
// them: editability and progress-bar percentage. Editability is
// orthogonal to category; a status can be both initial and editable.
type Classification[S ~string] struct {
	categories map[S]Category
	editable   map[S]bool
	progress   map[S]int
}

// NewClassification builds an immutable classification from its lookup tables
func NewClassification[S ~string](categories map[S]Category, editable []S, progress map[S]int) Classification[S] {
	editableSet := make(map[S]bool, len(editable))
	for _, status := range editable {
		editableSet[status] = true
	}
	return Classification[S]{
		categories: categories,
		editable:   editableSet,
		progress:   progress,
	}
}

// Category returns the workflow bucket for a status, or false if unknown
func (c Classification[S]) Category(status S) (Category, bool) {
	category, ok := c.categories[status]
	return category, ok
}

// IsEditable reports whether entities in this status accept field edits
func (c Classification[S]) IsEditable(status S) bool {
	return c.editable[status]
}

// Progress returns the fixed progress-bar percentage for a status.
// It is a display lookup, not an estimate; unknown statuses map to 0.
func (c Classification[S]) Progress(status S) int {
	return c.progress[status]
}
