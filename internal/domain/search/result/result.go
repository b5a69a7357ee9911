package result

import "github.com/kailas-cloud/crmsearch/internal/domain/search/category"

// Result is a single normalized search hit.
type Result struct {
	id          string
	title       string
	subtitle    string
	description string
	source      category.Source
	icon        string
	metadata    Metadata
	lockMessage string
	locked      bool
}

// New creates a search result for the given adapter source.
func New(
	id, title, subtitle, description string,
	source category.Source, metadata Metadata,
) Result {
	return Result{
		id: id, title: title, subtitle: subtitle, description: description,
		source: source, icon: source.Icon(), metadata: metadata,
	}
}

// Lock marks the result as belonging to an unreleased feature.
func (r Result) Lock(message string) Result {
	r.locked = true
	r.lockMessage = message
	return r
}

// ID returns the source-entity primary key.
func (r *Result) ID() string { return r.id }

// Title returns the primary display label.
func (r *Result) Title() string { return r.title }

// Subtitle returns the secondary label.
func (r *Result) Subtitle() string { return r.subtitle }

// Description returns the free-text excerpt.
func (r *Result) Description() string { return r.description }

// URL returns the category navigation target, not an entity deep link.
func (r *Result) URL() string { return r.source.Category.URL() }

// Category returns the entity category.
func (r *Result) Category() category.Category { return r.source.Category }

// SubCategory returns the sub-kind, empty for flat categories.
func (r *Result) SubCategory() string { return r.source.SubCategory }

// Icon returns the symbolic UI icon.
func (r *Result) Icon() string { return r.icon }

// Metadata returns the category-specific extra fields.
func (r *Result) Metadata() Metadata { return r.metadata }

// Locked reports whether the result is flagged non-actionable.
func (r *Result) Locked() bool { return r.locked }

// LockMessage explains why the result is locked.
func (r *Result) LockMessage() string { return r.lockMessage }
