// Package keywords turns free Portuguese text into a ranked list of content words.
package keywords

import (
	"strings"
	"unicode/utf8"
)

// DefaultMax is the number of keywords returned when the caller has no preference.
const DefaultMax = 10

var punctuation = strings.NewReplacer(
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	"(", " ", ")", " ", "[", " ", "]", " ", "{", " ", "}", " ",
	"\"", " ", "'", " ", "`", " ", "/", " ", "\\", " ", "-", " ",
	"¿", " ", "¡", " ", "…", " ", "“", " ", "”", " ", "*", " ", "_", " ", "~", " ",
)

var stopWords = toSet(
	"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo", "as", "até", "com", "como",
	"da", "das", "de", "dela", "delas", "dele", "deles", "depois", "do", "dos", "e", "é", "ela", "elas",
	"ele", "eles", "em", "entre", "era", "eram", "essa", "essas", "esse", "esses", "esta", "está",
	"estão", "estas", "este", "estes", "eu", "foi", "for", "foram", "há", "isso", "isto", "já", "lhe",
	"lhes", "mais", "mas", "me", "mesmo", "meu", "meus", "minha", "minhas", "muito", "na", "nas", "não",
	"nem", "no", "nos", "nós", "nossa", "nossas", "nosso", "nossos", "num", "numa", "o", "os", "ou",
	"para", "pela", "pelas", "pelo", "pelos", "por", "qual", "quais", "quando", "que", "quem", "se",
	"seja", "sem", "ser", "será", "seu", "seus", "só", "sua", "suas", "também", "te", "tem", "têm",
	"ter", "teu", "teus", "tu", "tua", "tuas", "um", "uma", "umas", "uns", "você", "vocês", "vos",
	"sobre", "onde", "porque", "pra", "pro", "sim", "então", "aqui", "ali", "lá", "ainda", "bem",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether w is ignored by Extract.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// Extract returns up to max keywords of text ordered by descending frequency.
// Ties keep first-seen order. max <= 0 means DefaultMax.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}
	cleaned := punctuation.Replace(strings.ToLower(text))

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	// Stable insertion sort by count keeps first-seen order among ties.
	ranked := make([]string, 0, len(order))
	for _, token := range order {
		i := len(ranked)
		ranked = append(ranked, token)
		for i > 0 && counts[ranked[i-1]] < counts[token] {
			ranked[i] = ranked[i-1]
			i--
		}
		ranked[i] = token
	}

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
