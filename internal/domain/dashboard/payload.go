package dashboard

import "maps"

// Payload is the aggregate data of one or more tiers, keyed by field name.
type Payload map[string]float64

// Payload field names per tier. Field sets do not overlap.
const (
	FieldNewLeadsToday   = "newLeadsToday"
	FieldActivitiesToday = "activitiesToday"
	FieldOpenTasks       = "openTasks"

	FieldTotalLeads        = "totalLeads"
	FieldTotalContacts     = "totalContacts"
	FieldOpenOpportunities = "openOpportunities"
	FieldPipelineValue     = "pipelineValue"
	FieldActiveCampaigns   = "activeCampaigns"

	FieldWonDeals        = "wonDeals"
	FieldWonRevenue      = "wonRevenue"
	FieldConversionRate  = "conversionRate"
	FieldEmailsSent      = "emailsSent"
	FieldFormSubmissions = "formSubmissions"
)

// Fields returns the payload field names of a tier.
func (t Tier) Fields() []string {
	switch t {
	case Realtime:
		return []string{FieldNewLeadsToday, FieldActivitiesToday, FieldOpenTasks}
	case Hourly:
		return []string{
			FieldTotalLeads, FieldTotalContacts, FieldOpenOpportunities,
			FieldPipelineValue, FieldActiveCampaigns,
		}
	case Daily:
		return []string{
			FieldWonDeals, FieldWonRevenue, FieldConversionRate,
			FieldEmailsSent, FieldFormSubmissions,
		}
	default:
		return nil
	}
}

// DefaultPayload returns the empty default of a tier: every field zero.
func DefaultPayload(t Tier) Payload {
	p := make(Payload, len(t.Fields()))
	for _, f := range t.Fields() {
		p[f] = 0
	}
	return p
}

// Merge combines payloads by shallow key union. Later payloads win on conflicts.
func Merge(payloads ...Payload) Payload {
	out := make(Payload)
	for _, p := range payloads {
		maps.Copy(out, p)
	}
	return out
}
