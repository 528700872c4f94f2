package textnorm

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// articleRule is one ordered group of leading articles for a language.
type articleRule struct {
	Lang     string   `yaml:"lang"`
	Articles []string `yaml:"articles"`
}

//go:embed articles.yaml
var articlesYAML []byte

// articlePatterns holds the compiled rules in file order. The order is
// significant: elided forms ("l'", "d'") come before bare single letters.
var articlePatterns = mustLoadArticles(articlesYAML)

func mustLoadArticles(raw []byte) []*regexp.Regexp {
	var rules []articleRule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		panic(fmt.Sprintf("textnorm: invalid articles.yaml: %v", err))
	}
	var patterns []*regexp.Regexp
	for _, rule := range rules {
		for _, article := range rule.Articles {
			patterns = append(patterns, compileArticle(article))
		}
	}
	if len(patterns) == 0 {
		panic("textnorm: articles.yaml contains no rules")
	}
	return patterns
}

// compileArticle anchors the article at the start of the string and
// requires a separator after it, so article-shaped prefixes inside proper
// nouns ("Latour", "Porto") never match. Elided forms accept the common
// apostrophe variants.
func compileArticle(article string) *regexp.Regexp {
	if stem, ok := strings.CutSuffix(article, "'"); ok {
		return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(stem) + "['’`´]\\s*")
	}
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(article) + `\s+`)
}

// StripArticles removes leading definite/indefinite articles (French,
// Spanish, Italian, German, Portuguese, English) from a name. Stacked
// articles ("De La Tour") are stripped until no rule applies. Output is
// whitespace-collapsed and trimmed.
func StripArticles(s string) string {
	out := strings.TrimSpace(s)
	for stripped := true; stripped && out != ""; {
		stripped = false
		for _, p := range articlePatterns {
			if loc := p.FindStringIndex(out); loc != nil {
				out = strings.TrimSpace(out[loc[1]:])
				stripped = true
				break
			}
		}
	}
	return collapseWhitespace(out)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
