package classifier

import (
	"Saber/backend/go/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackExtractor(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		kind          string
		subjectType   string
		subjectValue  string
		predicateType string
		value         string
	}{
		{
			name:          "own name",
			body:          "meu nome é Ana",
			kind:          models.EntryKindIdentity,
			subjectType:   models.SubjectUser,
			predicateType: "name",
			value:         "Ana",
		},
		{
			name:          "meaning",
			body:          "API significa interface de programação.",
			kind:          models.EntryKindDefinition,
			subjectType:   models.SubjectConcept,
			subjectValue:  "API",
			predicateType: "definition",
			value:         "interface de programação",
		},
		{
			name:          "self property",
			body:          "minha cor favorita é azul",
			kind:          models.EntryKindProperty,
			subjectType:   models.SubjectUser,
			predicateType: "cor favorita",
			value:         "azul",
		},
		{
			name:          "concept is something",
			body:          "Java é uma linguagem de programação",
			kind:          models.EntryKindDefinition,
			subjectType:   models.SubjectConcept,
			subjectValue:  "Java",
			predicateType: "definition",
			value:         "uma linguagem de programação",
		},
		{
			name:          "anything else",
			body:          "fotossíntese transforma luz em energia",
			kind:          models.EntryKindDefinition,
			subjectType:   models.SubjectConcept,
			subjectValue:  "fotossíntese",
			predicateType: "definition",
			value:         "fotossíntese transforma luz em energia",
		},
	}

	f := NewFallbackExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := f.Extract(tt.body)
			require.Len(t, entries, 1)
			e := entries[0]
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.subjectType, e.Subject.Type)
			if tt.subjectValue != "" {
				assert.Equal(t, tt.subjectValue, e.Subject.Value)
			}
			assert.Equal(t, tt.predicateType, e.Predicate.Type)
			assert.Equal(t, tt.value, e.Predicate.Value)
			assert.Equal(t, models.CertaintyHigh, e.Context.Certainty)
			assert.NotEmpty(t, e.ID)
		})
	}

	assert.Empty(t, f.Extract("   "))
}
