package search

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kailas-cloud/crmsearch/internal/db"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/category"
	"github.com/kailas-cloud/crmsearch/internal/domain/search/result"
)

// Normalizer limits and fallbacks.
const (
	UntitledTitle        = "Untitled"
	DescriptionMaxRunes  = 150
	descriptionEllipsis  = "..."
	knowledgeNodesLocked = "Knowledge graph nodes are coming soon"
	knowledgeMapsLocked  = "Knowledge maps are coming soon"
	knowledgeNotesLocked = "Knowledge notes are coming soon"
)

var moneyPrinter = message.NewPrinter(language.English)

// Normalize maps raw rows of one source to search results.
// Rows without an id are dropped.
func Normalize(rows []db.Row, src category.Source) []result.Result {
	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		r, ok := normalizeRow(row, src)
		if ok {
			out = append(out, r)
		}
	}
	return out
}

func normalizeRow(row db.Row, src category.Source) (result.Result, bool) {
	id := str(row, "id")
	if id == "" {
		return result.Result{}, false
	}

	var (
		title, subtitle, description string
		meta                         result.Metadata
	)
	switch src.Category {
	case category.Leads:
		title = str(row, "name")
		subtitle = firstNonEmpty(row, "email", "company")
		description = str(row, "phone")
		meta = result.LeadMetadata{
			Status: str(row, "status"),
			Source: str(row, "source"),
			Value:  num(row, "value"),
		}
	case category.Contacts:
		title = strings.TrimSpace(str(row, "first_name") + " " + str(row, "last_name"))
		subtitle = firstNonEmpty(row, "email", "company")
		description = str(row, "phone")
		meta = result.ContactMetadata{
			Company:  str(row, "company"),
			Position: str(row, "position"),
		}
	case category.Campaigns:
		status := str(row, "status")
		sent := int64(num(row, "sent_count"))
		title = str(row, "name")
		subtitle = str(row, "subject")
		description = status + " • " + strconv.FormatInt(sent, 10) + " sent"
		meta = result.CampaignMetadata{Status: status, SentCount: sent}
	case category.Knowledge:
		title = firstNonEmpty(row, "title", "name")
		description = truncate(firstNonEmpty(row, "content", "description"))
		meta = result.KnowledgeMetadata{Kind: src.SubCategory, Tags: tags(row, "tags")}
	case category.Opportunities:
		stage := str(row, "stage")
		value := num(row, "value")
		title = str(row, "name")
		subtitle = stage
		description = "$" + formatMoney(value) + " • " + stage
		meta = result.OpportunityMetadata{
			Stage:       stage,
			Value:       value,
			Probability: num(row, "probability"),
		}
	case category.Activities:
		kind := str(row, "type")
		title = str(row, "subject")
		subtitle = kind
		description = truncate(str(row, "description"))
		meta = result.ActivityMetadata{
			Type:      kind,
			DueDate:   str(row, "due_date"),
			Completed: boolean(row, "completed"),
		}
	case category.Forms:
		submissions := int64(num(row, "submissions"))
		title = str(row, "name")
		subtitle = str(row, "status")
		description = strconv.FormatInt(submissions, 10) + " submissions"
		meta = result.FormMetadata{Status: str(row, "status"), Submissions: submissions}
	default:
		return result.Result{}, false
	}

	if strings.TrimSpace(title) == "" {
		title = UntitledTitle
	}

	r := result.New(id, title, subtitle, description, src, meta)
	if msg := lockMessage(src); msg != "" {
		r = r.Lock(msg)
	}
	return r, true
}

func lockMessage(src category.Source) string {
	switch src {
	case category.SourceKnowledgeNodes:
		return knowledgeNodesLocked
	case category.SourceKnowledgeMaps:
		return knowledgeMapsLocked
	case category.SourceKnowledgeNotes:
		return knowledgeNotesLocked
	default:
		return ""
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionMaxRunes {
		return s
	}
	return string(r[:DescriptionMaxRunes]) + descriptionEllipsis
}

// formatMoney renders thousands separators, with cents only when not integral.
func formatMoney(v float64) string {
	if v == math.Trunc(v) {
		return moneyPrinter.Sprintf("%d", int64(v))
	}
	return moneyPrinter.Sprintf("%.2f", v)
}
