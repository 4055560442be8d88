package models

import "time"

// Fact kinds as stored. Lower-cased, canonical.
const (
	FactKindName       = "name"
	FactKindRelation   = "relation"
	FactKindDefinition = "definition"
	FactKindProperty   = "property"
	FactKindEntity     = "entity"
)

// Certainty levels reported by the classifier. Only CertaintyHigh is ever persisted.
const (
	CertaintyHigh   = "ALTA"
	CertaintyMedium = "MÉDIA"
	CertaintyLow    = "BAIXA"
)

// GeneralEntity is the subject of facts that describe concepts rather than people.
const GeneralEntity = "general"

// RelationshipPropertyOf links a concept property back to its concept.
const RelationshipPropertyOf = "property_of"

// Fact is a subject-predicate-object record with certainty and provenance.
// (Kind, Key, Entity[, Concept]) is the natural key.
type Fact struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	Kind          string         `bson:"kind" json:"kind"`
	Key           string         `bson:"key" json:"key"`
	Entity        string         `bson:"entity" json:"entity"`
	Value         string         `bson:"value" json:"value"`
	Concept       string         `bson:"concept,omitempty" json:"concept,omitempty"`
	Category      string         `bson:"category,omitempty" json:"category,omitempty"`
	Relationships []Relationship `bson:"relationships,omitempty" json:"relationships,omitempty"`
	Context       FactContext    `bson:"context" json:"context"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt time.Time      `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}

// Relationship is an edge from the fact's subject to another entity.
type Relationship struct {
	Type         string `bson:"type" json:"type"`
	TargetEntity string `bson:"entity" json:"targetEntity"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
}

// FactContext carries provenance.
type FactContext struct {
	Certainty string    `bson:"certainty" json:"certainty"`
	Source    string    `bson:"source,omitempty" json:"source,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Entity is a named third party or concept that facts can reference.
type Entity struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	NormalizedName string    `bson:"normalizedName" json:"normalizedName"`
	Kind           string    `bson:"kind" json:"kind"`
	Aliases        []string  `bson:"aliases" json:"aliases"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt  time.Time `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}

// UpsertResult reports whether an upsert created or modified a record.
type UpsertResult string

const (
	UpsertInserted UpsertResult = "inserted"
	UpsertUpdated  UpsertResult = "updated"
)

// Entity kinds.
const (
	EntityKindThirdParty = "third_party"
	EntityKindConcept    = "concept"
)
