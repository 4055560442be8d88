package classifier

import (
	"Saber/backend/go/internal/knowledge/keywords"
	"Saber/backend/go/internal/models"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	namePattern    = regexp.MustCompile(`(?i)^meu nome é\s+(.+?)[.!]*$`)
	meaningPattern = regexp.MustCompile(`(?i)^(.+?)\s+significa\s+(.+?)[.!]*$`)
	isPattern      = regexp.MustCompile(`(?i)^(.+?)\s+é\s+(.+?)[.!]*$`)
)

var selfPrefixes = []string{"meu ", "minha ", "meus ", "minhas "}

// FallbackExtractor recognizes a few fixed sentence shapes in a learning
// command when the model returned no knowledge entries.
type FallbackExtractor struct{}

// NewFallbackExtractor creates a FallbackExtractor.
func NewFallbackExtractor() *FallbackExtractor {
	return &FallbackExtractor{}
}

// Extract maps body to exactly one entry, or none when body is empty.
func (f *FallbackExtractor) Extract(body string) []models.KnowledgeEntry {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	if m := namePattern.FindStringSubmatch(body); m != nil {
		return []models.KnowledgeEntry{newEntry(models.EntryKindIdentity,
			&models.EntrySubject{Type: models.SubjectUser, Value: "usuário"},
			&models.EntryTerm{Type: "name", Value: strings.TrimSpace(m[1])})}
	}

	if m := meaningPattern.FindStringSubmatch(body); m != nil {
		return []models.KnowledgeEntry{definition(m[1], m[2])}
	}

	if m := isPattern.FindStringSubmatch(body); m != nil {
		subject := strings.TrimSpace(m[1])
		lower := strings.ToLower(subject)
		for _, p := range selfPrefixes {
			if strings.HasPrefix(lower, p) {
				return []models.KnowledgeEntry{newEntry(models.EntryKindProperty,
					&models.EntrySubject{Type: models.SubjectUser, Value: "usuário"},
					&models.EntryTerm{Type: strings.TrimSpace(subject[len(p):]), Value: strings.TrimSpace(m[2])})}
			}
		}
		return []models.KnowledgeEntry{definition(subject, m[2])}
	}

	concept := body
	if kws := keywords.Extract(body, 1); len(kws) > 0 {
		concept = kws[0]
	}
	return []models.KnowledgeEntry{definition(concept, body)}
}

func definition(concept, meaning string) models.KnowledgeEntry {
	return newEntry(models.EntryKindDefinition,
		&models.EntrySubject{Type: models.SubjectConcept, Value: strings.TrimSpace(concept)},
		&models.EntryTerm{Type: "definition", Value: strings.TrimSpace(meaning)})
}

func newEntry(kind string, subject *models.EntrySubject, predicate *models.EntryTerm) models.KnowledgeEntry {
	return models.KnowledgeEntry{
		ID:        uuid.New().String(),
		Kind:      kind,
		Subject:   subject,
		Predicate: predicate,
		Context: models.EntryContext{
			Certainty:   models.CertaintyHigh,
			Source:      "fallback",
			Temporality: "permanent",
		},
	}
}
