package query

import (
	"Saber/backend/go/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func question(subject, category string) models.TaxonomicAnalysis {
	return models.TaxonomicAnalysis{
		InteractionType:   models.InteractionQuestion,
		PrimarySubject:    subject,
		KnowledgeCategory: category,
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		analysis models.TaxonomicAnalysis
		text     string
		want     *Descriptor
	}{
		{
			name:     "own name",
			analysis: question(models.SubjectUser, "identity"),
			text:     "qual é meu nome",
			want:     &Descriptor{Kind: models.EntryKindIdentity, Target: TargetSelf},
		},
		{
			name:     "portuguese category",
			analysis: question(models.SubjectUser, "Relação"),
			text:     "quem são meus amigos?",
			want:     &Descriptor{Kind: models.EntryKindRelation, Target: TargetSelf},
		},
		{
			name:     "third party",
			analysis: question(models.SubjectThirdParty, "identity"),
			text:     "Quem é Maria Clara?",
			want:     &Descriptor{Kind: models.EntryKindIdentity, Target: TargetThirdParty, Name: "Maria Clara"},
		},
		{
			name:     "third party with about",
			analysis: question(models.SubjectThirdParty, "relation"),
			text:     "o que você sabe sobre a Maria",
			want:     &Descriptor{Kind: models.EntryKindRelation, Target: TargetThirdParty, Name: "Maria"},
		},
		{
			name:     "definition",
			analysis: question(models.SubjectConcept, "definition"),
			text:     "O que é uma API?",
			want:     &Descriptor{Kind: models.EntryKindDefinition, Target: TargetConcept, Concept: "API"},
		},
		{
			name:     "meaning",
			analysis: question(models.SubjectConcept, "definition"),
			text:     "qual o significado de fotossíntese",
			want:     &Descriptor{Kind: models.EntryKindDefinition, Target: TargetConcept, Concept: "fotossíntese"},
		},
		{
			name:     "concept property",
			analysis: question(models.SubjectConcept, "property"),
			text:     "Quais são as cores da maçã?",
			want:     &Descriptor{Kind: models.EntryKindProperty, Target: TargetConcept, Concept: "maçã", Property: "cores"},
		},
		{
			name:     "concept property loose form",
			analysis: question(models.SubjectConcept, "property"),
			text:     "a maçã tem quais cores?",
			want:     &Descriptor{Kind: models.EntryKindProperty, Target: TargetConcept, Concept: "maçã", Property: "cores"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.analysis, tt.text))
		})
	}
}

func TestAnalyzeDeclines(t *testing.T) {
	tests := []struct {
		name     string
		analysis models.TaxonomicAnalysis
		text     string
	}{
		{
			name:     "statement",
			analysis: models.TaxonomicAnalysis{InteractionType: "statement", PrimarySubject: models.SubjectConcept, KnowledgeCategory: "definition"},
			text:     "Java é uma linguagem",
		},
		{
			name:     "unknown category",
			analysis: question(models.SubjectUser, "opinion"),
			text:     "o que acho de java?",
		},
		{
			name:     "third party without a name",
			analysis: question(models.SubjectThirdParty, "identity"),
			text:     "e ela?",
		},
		{
			name:     "definition without a concept",
			analysis: question(models.SubjectConcept, "definition"),
			text:     "explica isso",
		},
		{
			name:     "concept relation has no rule",
			analysis: question(models.SubjectConcept, "relation"),
			text:     "o que é java?",
		},
		{
			name:     "unknown subject",
			analysis: question("ANIMAL", "identity"),
			text:     "quem é Rex?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Analyze(tt.analysis, tt.text))
		})
	}
}
