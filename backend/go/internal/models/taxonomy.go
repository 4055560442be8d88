package models

// Subject types used by the classifier.
const (
	SubjectUser       = "USER"
	SubjectThirdParty = "THIRD_PARTY"
	SubjectConcept    = "CONCEPT"
)

// Knowledge entry kinds produced by the classifier.
const (
	EntryKindIdentity   = "identity"
	EntryKindRelation   = "relation"
	EntryKindDefinition = "definition"
	EntryKindProperty   = "property"
	EntryKindEntity     = "entity"
)

// InteractionQuestion marks a message that asks about stored facts.
const InteractionQuestion = "question"

// TaxonomyResult is the structured classification returned by the language model.
type TaxonomyResult struct {
	Keywords          []string          `json:"keywords"`
	AnswerText        string            `json:"answerText"`
	Classification    string            `json:"classification"`
	TaxonomicAnalysis TaxonomicAnalysis `json:"taxonomicAnalysis"`
	Knowledge         Knowledge         `json:"knowledge"`
}

// TaxonomicAnalysis is the model's judgment of what the message is about.
type TaxonomicAnalysis struct {
	InteractionType    string `json:"interactionType"`
	PrimarySubject     string `json:"primarySubject"`
	KnowledgeCategory  string `json:"knowledgeCategory"`
	ApplicationContext string `json:"applicationContext"`
	CertaintyLevel     string `json:"certaintyLevel"`
}

// Knowledge holds the entries the model proposes to learn.
type Knowledge struct {
	Store   bool             `json:"store"`
	Entries []KnowledgeEntry `json:"entries"`
}

// KnowledgeEntry is a raw, unvalidated fact proposal.
type KnowledgeEntry struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Subject   *EntrySubject `json:"subject"`
	Predicate *EntryTerm    `json:"predicate"`
	Object    *EntrySubject `json:"object,omitempty"`
	Context   EntryContext  `json:"context"`
}

// EntrySubject is a subject or object of a knowledge entry.
type EntrySubject struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	ID       string `json:"id,omitempty"`
	Category string `json:"category,omitempty"`
}

// EntryTerm is the predicate of a knowledge entry.
type EntryTerm struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EntryContext is the provenance the model attaches to an entry.
type EntryContext struct {
	Certainty   string `json:"certainty"`
	Source      string `json:"source"`
	Temporality string `json:"temporality"`
}
