package category

// Source identifies one adapter slot: a category plus an optional sub-kind.
type Source struct {
	Category    Category
	SubCategory string
}

// Knowledge sub-categories.
const (
	SubNodes = "nodes"
	SubMaps  = "maps"
	SubNotes = "notes"
)

// Source constants.
var (
	SourceLeads          = Source{Category: Leads}
	SourceContacts       = Source{Category: Contacts}
	SourceCampaigns      = Source{Category: Campaigns}
	SourceKnowledgeNodes = Source{Category: Knowledge, SubCategory: SubNodes}
	SourceKnowledgeMaps  = Source{Category: Knowledge, SubCategory: SubMaps}
	SourceKnowledgeNotes = Source{Category: Knowledge, SubCategory: SubNotes}
	SourceOpportunities  = Source{Category: Opportunities}
	SourceActivities     = Source{Category: Activities}
	SourceForms          = Source{Category: Forms}
)

// Sources returns every adapter source in fixed dispatch order.
func Sources() []Source {
	return []Source{
		SourceLeads,
		SourceContacts,
		SourceCampaigns,
		SourceKnowledgeNodes,
		SourceKnowledgeMaps,
		SourceKnowledgeNotes,
		SourceOpportunities,
		SourceActivities,
		SourceForms,
	}
}

// String renders the source as "category" or "category/sub".
func (s Source) String() string {
	if s.SubCategory == "" {
		return string(s.Category)
	}
	return string(s.Category) + "/" + s.SubCategory
}

// Icon returns the symbolic UI icon for the source.
func (s Source) Icon() string {
	switch s {
	case SourceLeads:
		return "users"
	case SourceContacts:
		return "user-circle"
	case SourceCampaigns:
		return "mail"
	case SourceKnowledgeNodes:
		return "brain"
	case SourceKnowledgeMaps:
		return "network"
	case SourceKnowledgeNotes:
		return "file-text"
	case SourceOpportunities:
		return "trending-up"
	case SourceActivities:
		return "calendar"
	case SourceForms:
		return "file-input"
	default:
		return "search"
	}
}
