package translator

import (
	"Saber/backend/go/internal/models"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrValidation wraps every reason an entry is discarded.
var ErrValidation = errors.New("invalid knowledge entry")

var nameSymbols = regexp.MustCompile(`[^\p{L}\p{N}_\s'-]`)

var knownKinds = map[string]bool{
	models.EntryKindIdentity:   true,
	models.EntryKindRelation:   true,
	models.EntryKindDefinition: true,
	models.EntryKindProperty:   true,
	models.EntryKindEntity:     true,
}

var knownSubjects = map[string]bool{
	models.SubjectUser:       true,
	models.SubjectThirdParty: true,
	models.SubjectConcept:    true,
}

const (
	minDefinitionLength   = 5
	minPropertyTypeLength = 2
)

// Validate applies the structural, certainty and per-kind checks in that order.
func Validate(e models.KnowledgeEntry) error {
	if e.Kind == "" || e.Subject == nil || e.Predicate == nil {
		return fmt.Errorf("%w: kind, subject and predicate are required", ErrValidation)
	}
	if !knownKinds[e.Kind] {
		return fmt.Errorf("%w: unknown kind %q", ErrValidation, e.Kind)
	}
	if !knownSubjects[e.Subject.Type] {
		return fmt.Errorf("%w: unknown subject type %q", ErrValidation, e.Subject.Type)
	}

	if e.Context.Certainty != models.CertaintyHigh {
		return fmt.Errorf("%w: certainty %q is not %s", ErrValidation, e.Context.Certainty, models.CertaintyHigh)
	}

	switch e.Kind {
	case models.EntryKindIdentity:
		if nameSymbols.MatchString(CleanValue(e.Predicate.Value)) {
			return fmt.Errorf("%w: name %q contains symbols", ErrValidation, e.Predicate.Value)
		}
	case models.EntryKindRelation:
		if e.Object == nil || CleanValue(e.Object.Value) == "" {
			return fmt.Errorf("%w: relation without object", ErrValidation)
		}
		if e.Subject.Type == e.Object.Type && NormalizeKey(e.Subject.Value) == NormalizeKey(e.Object.Value) {
			return fmt.Errorf("%w: circular relation on %q", ErrValidation, e.Subject.Value)
		}
	case models.EntryKindDefinition:
		if utf8.RuneCountInString(CleanValue(e.Predicate.Value)) < minDefinitionLength {
			return fmt.Errorf("%w: definition %q too short", ErrValidation, e.Predicate.Value)
		}
	case models.EntryKindProperty:
		if utf8.RuneCountInString(strings.TrimSpace(e.Predicate.Type)) < minPropertyTypeLength {
			return fmt.Errorf("%w: property type %q too short", ErrValidation, e.Predicate.Type)
		}
	}
	return nil
}
