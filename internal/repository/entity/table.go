package entity

import "github.com/kailas-cloud/crmsearch/internal/domain/search/category"

// Table declares how one search source maps onto an entity table.
type Table struct {
	Source category.Source
	Name   string
	Fields []string
}

// Tables returns the table definition of every source in fixed dispatch order.
func Tables() []Table {
	return []Table{
		{category.SourceLeads, "leads", []string{"name", "email", "company", "phone"}},
		{category.SourceContacts, "contacts", []string{"first_name", "last_name", "email", "company", "phone"}},
		{category.SourceCampaigns, "email_campaigns", []string{"name", "subject"}},
		{category.SourceKnowledgeNodes, "knowledge_nodes", []string{"title", "content"}},
		{category.SourceKnowledgeMaps, "knowledge_maps", []string{"name", "description"}},
		{category.SourceKnowledgeNotes, "knowledge_notes", []string{"title", "content"}},
		{category.SourceOpportunities, "opportunities", []string{"name", "stage"}},
		{category.SourceActivities, "activities", []string{"subject", "description"}},
		{category.SourceForms, "forms", []string{"name", "description"}},
	}
}
