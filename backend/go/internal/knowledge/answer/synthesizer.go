// Package answer formats retrieved facts as a natural-language reply.
package answer

import (
	"Saber/backend/go/internal/knowledge/query"
	"Saber/backend/go/internal/models"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Synthesize formats facts for q. ok is false when no rule applies,
// which callers treat as "could not answer".
func Synthesize(q *query.Descriptor, facts []models.Fact) (text string, ok bool) {
	if q == nil || len(facts) == 0 {
		return "", false
	}
	if len(facts) == 1 {
		return single(facts[0]), true
	}

	switch {
	case q.Target == query.TargetThirdParty:
		return aboutThirdParty(q.Name, facts)
	case q.Kind == models.EntryKindRelation && q.Target == query.TargetSelf:
		return selfRelations(facts), true
	case q.Target == query.TargetConcept && q.Concept != "":
		return conceptProperties(q, facts)
	case q.Kind == models.EntryKindProperty && q.Target == query.TargetSelf:
		return "Suas informações:\n" + bullets(facts), true
	}
	return "", false
}

func single(f models.Fact) string {
	switch f.Kind {
	case models.FactKindName:
		return fmt.Sprintf("Seu nome é %s.", f.Value)
	case models.FactKindDefinition:
		return fmt.Sprintf("%s significa %s.", strings.ToUpper(f.Key), f.Value)
	default:
		return fmt.Sprintf("%s: %s", f.Key, f.Value)
	}
}

// aboutThirdParty keeps exact value matches, or substring matches when there are none.
func aboutThirdParty(name string, facts []models.Fact) (string, bool) {
	var exact, partial []models.Fact
	for _, f := range facts {
		switch {
		case strings.EqualFold(f.Value, name):
			exact = append(exact, f)
		case strings.Contains(strings.ToLower(f.Value), strings.ToLower(name)):
			partial = append(partial, f)
		}
	}
	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	if len(matches) == 0 {
		return "", false
	}
	if len(matches) == 1 {
		f := matches[0]
		return fmt.Sprintf("%s é seu/sua %s.", f.Value, f.Key), true
	}
	return fmt.Sprintf("Sobre %s:\n%s", name, bullets(matches)), true
}

func selfRelations(facts []models.Fact) string {
	key := facts[0].Key
	values := make([]string, 0, len(facts))
	for _, f := range facts {
		if f.Key != key {
			return "Suas relações:\n" + bullets(facts)
		}
		values = append(values, f.Value)
	}
	if key == "amigo" {
		return "Seus amigos são: " + JoinPT(values)
	}
	return fmt.Sprintf("Seus %s: %s", key, JoinPT(values))
}

func conceptProperties(q *query.Descriptor, facts []models.Fact) (string, bool) {
	concept := Capitalize(q.Concept)
	if q.Property != "" {
		var values []string
		for _, f := range facts {
			if propertyMatches(f.Key, q.Property) {
				values = append(values, f.Value)
			}
		}
		if len(values) > 0 {
			return fmt.Sprintf("As %s de %s são: %s", q.Property, concept, JoinPT(values)), true
		}
	}
	return fmt.Sprintf("Sobre %s:\n%s", concept, bullets(facts)), true
}

func propertyMatches(key, property string) bool {
	k, p := strings.ToLower(key), strings.ToLower(property)
	return strings.Contains(k, p) || strings.Contains(p, k)
}

func bullets(facts []models.Fact) string {
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Key, f.Value))
	}
	return strings.Join(lines, "\n")
}

// JoinPT joins items as "A, B e C".
func JoinPT(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " e " + items[len(items)-1]
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
