package result

import "github.com/kailas-cloud/crmsearch/internal/domain/search/category"

// Metadata is the category-specific payload of a result.
// Each variant is bound to exactly one category.
type Metadata interface {
	Category() category.Category
}

// LeadMetadata carries lead pipeline fields.
type LeadMetadata struct {
	Status string  `json:"status"`
	Source string  `json:"source"`
	Value  float64 `json:"value"`
}

// Category implements Metadata.
func (LeadMetadata) Category() category.Category { return category.Leads }

// ContactMetadata carries contact employment fields.
type ContactMetadata struct {
	Company  string `json:"company"`
	Position string `json:"position"`
}

// Category implements Metadata.
func (ContactMetadata) Category() category.Category { return category.Contacts }

// CampaignMetadata carries email campaign delivery fields.
type CampaignMetadata struct {
	Status    string `json:"status"`
	SentCount int64  `json:"sentCount"`
}

// Category implements Metadata.
func (CampaignMetadata) Category() category.Category { return category.Campaigns }

// KnowledgeMetadata carries knowledge artifact fields.
type KnowledgeMetadata struct {
	Kind string   `json:"kind"`
	Tags []string `json:"tags"`
}

// Category implements Metadata.
func (KnowledgeMetadata) Category() category.Category { return category.Knowledge }

// OpportunityMetadata carries deal fields.
type OpportunityMetadata struct {
	Stage       string  `json:"stage"`
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// Category implements Metadata.
func (OpportunityMetadata) Category() category.Category { return category.Opportunities }

// ActivityMetadata carries calendar activity fields.
type ActivityMetadata struct {
	Type      string `json:"type"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
}

// Category implements Metadata.
func (ActivityMetadata) Category() category.Category { return category.Activities }

// FormMetadata carries form fields.
type FormMetadata struct {
	Status      string `json:"status"`
	Submissions int64  `json:"submissions"`
}

// Category implements Metadata.
func (FormMetadata) Category() category.Category { return category.Forms }
