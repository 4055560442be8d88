package classifier

import (
	"fmt"
	"strings"
)

const systemPrompt = `Você é o módulo de classificação taxonômica de um assistente de conhecimento.
Analise a mensagem do usuário e responda SOMENTE com um objeto JSON no formato:

{
  "keywords": ["palavra", "..."],
  "answerText": "resposta natural e curta em português",
  "classification": "global" | "personal",
  "taxonomicAnalysis": {
    "interactionType": "question" | "statement" | "command" | "greeting",
    "primarySubject": "USER" | "THIRD_PARTY" | "CONCEPT",
    "knowledgeCategory": "identity" | "relation" | "definition" | "property" | "entity",
    "applicationContext": "texto livre",
    "certaintyLevel": "ALTA" | "MÉDIA" | "BAIXA"
  },
  "knowledge": {
    "store": true | false,
    "entries": [
      {
        "id": "identificador",
        "kind": "identity" | "relation" | "definition" | "property" | "entity",
        "subject": {"type": "USER" | "THIRD_PARTY" | "CONCEPT", "value": "...", "id": "opcional", "category": "opcional"},
        "predicate": {"type": "...", "value": "..."},
        "object": {"type": "...", "value": "..."},
        "context": {"certainty": "ALTA" | "MÉDIA" | "BAIXA", "source": "...", "temporality": "..."}
      }
    ]
  }
}

Regras:
- Use "USER" como sujeito para tudo que o remetente disser sobre si mesmo ("eu", "meu", "minha").
- Só marque certainty "ALTA" quando a informação for declarada explicitamente.
- Em relações, predicate.type é o nome da relação (ex.: "amigo") e object.value é a outra pessoa.
- Em definições, subject.value é o conceito e predicate.value é o significado.
- knowledge.store só deve ser true quando a mensagem for um comando de aprendizado.`

const learningDirective = `ATENÇÃO: esta mensagem é um comando explícito de aprendizado. ` +
	`Extraia todo o conhecimento declarado em knowledge.entries e defina knowledge.store como true.`

// Sender identifies who wrote the message.
type Sender struct {
	ID   string
	Name string
}

// buildPrompt assembles the user turn with sender context.
func buildPrompt(text string, sender Sender, learning bool) string {
	var sb strings.Builder
	if sender.Name != "" || sender.ID != "" {
		sb.WriteString("Contexto do remetente:\n")
		if sender.Name != "" {
			fmt.Fprintf(&sb, "- nome: %s\n", sender.Name)
		}
		if sender.ID != "" {
			fmt.Fprintf(&sb, "- id: %s\n", sender.ID)
		}
		sb.WriteString("\n")
	}
	if learning {
		sb.WriteString(learningDirective)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Mensagem:\n")
	sb.WriteString(text)
	return sb.String()
}
