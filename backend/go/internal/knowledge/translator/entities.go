package translator

import (
	"Saber/backend/go/internal/models"
	"time"
)

// ExtractEntities lists the third parties and concepts referenced by facts,
// one per normalized name, in first-mention order. The sender is not an entity.
func ExtractEntities(facts []models.Fact, userID string) []models.Entity {
	var out []models.Entity
	index := make(map[string]int)
	now := time.Now()

	add := func(name, kind string) {
		normalized := NormalizeKey(name)
		if normalized == "" || normalized == models.GeneralEntity || normalized == NormalizeKey(userID) {
			return
		}
		display := CleanValue(name)
		if i, ok := index[normalized]; ok {
			out[i].Aliases = appendUnique(out[i].Aliases, display)
			return
		}
		index[normalized] = len(out)
		out = append(out, models.Entity{
			Name:           display,
			NormalizedName: normalized,
			Kind:           kind,
			Aliases:        []string{display},
			CreatedAt:      now,
			LastUpdatedAt:  now,
		})
	}

	for _, f := range facts {
		switch f.Kind {
		case models.FactKindRelation:
			if f.Entity != userID {
				add(f.Entity, models.EntityKindThirdParty)
			}
			add(f.Value, models.EntityKindThirdParty)
		case models.FactKindDefinition:
			add(f.Key, models.EntityKindConcept)
		case models.FactKindProperty:
			if f.Concept != "" {
				add(f.Concept, models.EntityKindConcept)
			} else if f.Entity != userID {
				add(f.Entity, models.EntityKindThirdParty)
			}
		case models.FactKindEntity:
			add(f.Entity, f.Category)
		case models.FactKindName:
			if f.Entity != userID {
				add(f.Entity, models.EntityKindThirdParty)
			}
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
