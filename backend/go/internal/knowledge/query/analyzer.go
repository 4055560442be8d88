// Package query recognizes questions about stored facts and extracts their parameters.
package query

import (
	"Saber/backend/go/internal/models"
	"regexp"
	"strings"
)

// Target is who or what a question is about.
type Target string

const (
	TargetSelf       Target = "self"
	TargetThirdParty Target = "third_party"
	TargetConcept    Target = "concept"
)

// Descriptor says what is being asked and about whom.
type Descriptor struct {
	Kind     string // identity, relation, definition or property
	Target   Target
	Name     string // third-party name
	Concept  string
	Property string // optional property filter for concept questions
}

var categoryKinds = map[string]string{
	"identity":    models.EntryKindIdentity,
	"identidade":  models.EntryKindIdentity,
	"relation":    models.EntryKindRelation,
	"relação":     models.EntryKindRelation,
	"relacao":     models.EntryKindRelation,
	"definition":  models.EntryKindDefinition,
	"definição":   models.EntryKindDefinition,
	"definicao":   models.EntryKindDefinition,
	"property":    models.EntryKindProperty,
	"propriedade": models.EntryKindProperty,
}

var (
	thirdPartyPattern  = regexp.MustCompile(`(?i)(?:quem é|sobre)\s+(.+?)[?.!\s]*$`)
	definitionPattern  = regexp.MustCompile(`(?i)(?:o que é|significa|significado de)\s+(.+?)[?.!\s]*$`)
	propertyPattern    = regexp.MustCompile(`(?i)(?:quais|que|quem)\s+(?:são\s+|é\s+)?(?:as\s+|os\s+|a\s+|o\s+)?(.+?)\s+(?:da|do|de)\s+(.+?)[?.!\s]*$`)
	propertyHasPattern = regexp.MustCompile(`(?i)(.+?)\s+(?:tem|possui)\s+(?:quais|que)\s+(.+?)[?.!\s]*$`)
	leadingArticle     = regexp.MustCompile(`(?i)^(?:o|a|os|as|um|uma)\s+`)
)

// Analyze returns nil unless the classification is a question whose required
// parameters can all be extracted from text.
func Analyze(a models.TaxonomicAnalysis, text string) *Descriptor {
	if !strings.EqualFold(strings.TrimSpace(a.InteractionType), models.InteractionQuestion) {
		return nil
	}
	kind, ok := categoryKinds[strings.ToLower(strings.TrimSpace(a.KnowledgeCategory))]
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)

	switch strings.ToUpper(strings.TrimSpace(a.PrimarySubject)) {
	case models.SubjectUser:
		return &Descriptor{Kind: kind, Target: TargetSelf}

	case models.SubjectThirdParty:
		m := thirdPartyPattern.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		name := stripArticle(m[1])
		if name == "" {
			return nil
		}
		return &Descriptor{Kind: kind, Target: TargetThirdParty, Name: name}

	case models.SubjectConcept:
		return analyzeConcept(kind, text)
	}
	return nil
}

func analyzeConcept(kind, text string) *Descriptor {
	switch kind {
	case models.EntryKindDefinition:
		m := definitionPattern.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		concept := stripArticle(m[1])
		if concept == "" {
			return nil
		}
		return &Descriptor{Kind: kind, Target: TargetConcept, Concept: concept}

	case models.EntryKindProperty:
		if m := propertyPattern.FindStringSubmatch(text); m != nil {
			if concept := stripArticle(m[2]); concept != "" {
				return &Descriptor{Kind: kind, Target: TargetConcept, Concept: concept, Property: strings.TrimSpace(m[1])}
			}
		}
		if m := propertyHasPattern.FindStringSubmatch(text); m != nil {
			if concept := stripArticle(m[1]); concept != "" {
				return &Descriptor{Kind: kind, Target: TargetConcept, Concept: concept, Property: strings.TrimSpace(m[2])}
			}
		}
	}
	return nil
}

func stripArticle(s string) string {
	return strings.TrimSpace(leadingArticle.ReplaceAllString(strings.TrimSpace(s), ""))
}
