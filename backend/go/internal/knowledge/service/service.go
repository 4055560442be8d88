// Package service sequences keyword extraction, caching, classification,
// query answering and learning for one inbound message.
package service

import (
	"Saber/backend/go/internal/knowledge/answer"
	"Saber/backend/go/internal/knowledge/cache"
	"Saber/backend/go/internal/knowledge/classifier"
	"Saber/backend/go/internal/knowledge/keywords"
	"Saber/backend/go/internal/knowledge/query"
	"Saber/backend/go/internal/knowledge/store"
	"Saber/backend/go/internal/knowledge/translator"
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/logger"
	"context"
	"fmt"
	"strings"
)

// Config holds the user-facing texts and limits of the service.
type Config struct {
	DisplayName string
	LearnPrefix string
	ApologyText string
	FailureText string
	MaxKeywords int
}

// Service is the message orchestrator.
type Service struct {
	classifier classifier.Classifier
	translator *translator.Translator
	facts      store.FactStore
	cache      cache.ResponseCache
	graph      store.GraphMirror
	cfg        Config
	log        *logger.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithGraphMirror copies learned relationships into a graph store.
func WithGraphMirror(g store.GraphMirror) Option {
	return func(s *Service) { s.graph = g }
}

// New creates a Service.
func New(c classifier.Classifier, t *translator.Translator, facts store.FactStore, rc cache.ResponseCache, cfg Config, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = keywords.DefaultMax
	}
	s := &Service{
		classifier: c,
		translator: t,
		facts:      facts,
		cache:      rc,
		cfg:        cfg,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleMessage processes msg to completion and always returns a reply.
func (s *Service) HandleMessage(ctx context.Context, msg models.InboundMessage) models.Reply {
	log := s.log.WithPayload(map[string]interface{}{
		"message_id": msg.ID,
		"sender_id":  msg.SenderID,
		"is_group":   msg.IsGroup,
	})
	learning := classifier.IsLearningCommand(msg.Text, s.cfg.LearnPrefix)
	kws := keywords.Extract(msg.Text, s.cfg.MaxKeywords)

	if !learning {
		if hit := s.cachedAnswer(ctx, kws, log); hit != "" {
			log.Debug("answered from response cache")
			return s.reply(hit, models.RouteCache, 0)
		}
	}

	result, err := s.classifier.Classify(ctx, msg.Text, classifier.Sender{ID: msg.SenderID, Name: msg.SenderDisplayName})
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "classification_error"}).Warn("classification failed")
		return s.reply(s.cfg.ApologyText, models.RouteError, 0)
	}

	if learning {
		stored := s.learn(ctx, msg, result, kws, log)
		return s.reply(confirmation(stored), models.RouteLearning, stored)
	}

	if text, ok := s.answerQuery(ctx, msg, result, log); ok {
		return s.reply(text, models.RouteQuery, 0)
	}

	if ignored := s.translator.Translate(result.Knowledge, msg.SenderID); len(ignored) > 0 {
		log.WithField("facts", len(ignored)).Debug("statement outside a learning command, nothing stored")
	}
	if strings.TrimSpace(result.AnswerText) == "" {
		return s.reply(s.cfg.FailureText, models.RouteError, 0)
	}
	return s.reply(result.AnswerText, models.RouteFallback, 0)
}

// cachedAnswer returns a cached global answer. Personal answers depend on who
// asked, so they are never served to another message.
func (s *Service) cachedAnswer(ctx context.Context, kws []string, log *logger.Logger) string {
	hit, err := s.cache.FindByKeywords(ctx, kws)
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "cache_error"}).Warn("response cache lookup failed")
		return ""
	}
	if hit == nil || hit.Classification == models.ClassificationPersonal {
		return ""
	}
	return hit.AnswerText
}

func (s *Service) answerQuery(ctx context.Context, msg models.InboundMessage, result *models.TaxonomyResult, log *logger.Logger) (string, bool) {
	desc := query.Analyze(result.TaxonomicAnalysis, msg.Text)
	if desc == nil {
		return "", false
	}
	facts, err := s.lookup(ctx, desc, msg.SenderID)
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error(), Type: "store_error"}).Error("fact lookup failed")
		return "", false
	}
	text, ok := answer.Synthesize(desc, facts)
	if !ok {
		log.WithPayload(map[string]interface{}{
			"kind":   desc.Kind,
			"target": desc.Target,
			"facts":  len(facts),
		}).Debug("query could not be answered from stored facts")
	}
	return text, ok
}

// lookup dispatches a query descriptor to the store.
func (s *Service) lookup(ctx context.Context, d *query.Descriptor, sender string) ([]models.Fact, error) {
	switch d.Kind {
	case models.EntryKindIdentity:
		if d.Target == query.TargetSelf {
			return one(s.facts.FindFact(ctx, models.FactKindName, models.FactKindName, sender))
		}
		if d.Target == query.TargetThirdParty {
			return s.lookupThirdParty(ctx, d.Name, sender)
		}

	case models.EntryKindRelation:
		switch d.Target {
		case query.TargetSelf:
			return s.facts.FindRelationalFacts(ctx, models.FactKindRelation, sender, "")
		case query.TargetThirdParty:
			return s.facts.FindRelationalFacts(ctx, models.FactKindRelation, sender, d.Name)
		}

	case models.EntryKindDefinition:
		concept := d.Concept
		if d.Target == query.TargetThirdParty {
			concept = d.Name
		}
		if concept == "" {
			return nil, nil
		}
		def, err := s.facts.FindFact(ctx, models.FactKindDefinition, translator.NormalizeKey(concept), models.GeneralEntity)
		if err != nil || def != nil {
			return one(def, err)
		}
		return s.facts.FindConceptProperties(ctx, translator.NormalizeKey(concept))

	case models.EntryKindProperty:
		switch d.Target {
		case query.TargetSelf:
			return s.facts.FindRelationalFacts(ctx, models.FactKindProperty, sender, "")
		case query.TargetConcept:
			return s.facts.FindConceptProperties(ctx, translator.NormalizeKey(d.Concept))
		case query.TargetThirdParty:
			return s.facts.FindConceptProperties(ctx, translator.NormalizeKey(d.Name))
		}
	}
	return nil, nil
}

// lookupThirdParty prefers the sender's relations naming the person, then any
// of the sender's or general facts mentioning the name.
func (s *Service) lookupThirdParty(ctx context.Context, name, sender string) ([]models.Fact, error) {
	facts, err := s.facts.FindRelationalFacts(ctx, models.FactKindRelation, sender, name)
	if err != nil || len(facts) > 0 {
		return facts, err
	}
	partial, err := s.facts.FindFactsByPartialValue(ctx, name)
	if err != nil {
		return nil, err
	}
	owner := strings.ToLower(strings.TrimSpace(sender))
	var out []models.Fact
	for _, f := range partial {
		if f.Entity == owner || f.Entity == models.GeneralEntity {
			out = append(out, f)
		}
	}
	return out, nil
}

// learn persists every translated fact, then entities, the graph mirror and
// the cache. Per-fact failures are logged and not counted.
func (s *Service) learn(ctx context.Context, msg models.InboundMessage, result *models.TaxonomyResult, kws []string, log *logger.Logger) int {
	facts := s.translator.Translate(result.Knowledge, msg.SenderID)

	stored := 0
	var persisted []models.Fact
	for _, f := range facts {
		res, err := s.facts.UpsertFact(ctx, f)
		if err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error(), Type: "store_error"}).
				WithField("natural_key", fmt.Sprintf("%s/%s/%s", f.Kind, f.Key, f.Entity)).
				Error("failed to store fact")
			continue
		}
		stored++
		persisted = append(persisted, f)
		log.WithPayload(map[string]interface{}{
			"kind":   f.Kind,
			"key":    f.Key,
			"result": res,
		}).Debug("stored fact")

		if s.graph != nil {
			if err := s.graph.MirrorFact(ctx, f); err != nil {
				log.WithError(models.ErrorInfo{Message: err.Error(), Type: "graph_error"}).Warn("failed to mirror fact relationships")
			}
		}
	}

	for _, e := range translator.ExtractEntities(persisted, msg.SenderID) {
		if _, err := s.facts.UpsertEntity(ctx, e); err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error(), Type: "store_error"}).
				WithField("entity", e.NormalizedName).
				Error("failed to store entity")
		}
	}

	if strings.TrimSpace(result.AnswerText) != "" {
		cacheKeywords := result.Keywords
		if len(cacheKeywords) == 0 {
			cacheKeywords = kws
		}
		err := s.cache.Save(ctx, models.CachedResponse{
			Keywords:       cacheKeywords,
			AnswerText:     result.AnswerText,
			Classification: result.Classification,
		})
		if err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error(), Type: "cache_error"}).Warn("failed to cache learning answer")
		}
	}

	log.WithPayload(map[string]interface{}{
		"translated": len(facts),
		"stored":     stored,
	}).Info("learning command processed")
	return stored
}

func (s *Service) reply(text string, route models.Route, stored int) models.Reply {
	return models.Reply{
		Text:        FormatReply(s.cfg.DisplayName, text),
		Route:       route,
		FactsStored: stored,
	}
}

// FormatReply prefixes text with the assistant's display name.
func FormatReply(displayName, text string) string {
	return fmt.Sprintf("*%s:* %s", displayName, text)
}

func confirmation(stored int) string {
	switch stored {
	case 0:
		return "Não encontrei nada que eu pudesse aprender nessa mensagem."
	case 1:
		return "Entendido! Memorizei 1 informação."
	default:
		return fmt.Sprintf("Entendido! Memorizei %d informações.", stored)
	}
}

func one(f *models.Fact, err error) ([]models.Fact, error) {
	if err != nil || f == nil {
		return nil, err
	}
	return []models.Fact{*f}, nil
}
