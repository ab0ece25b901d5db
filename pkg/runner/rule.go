package runner

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/domtext"
	"github.com/yaklabco/domsplice/pkg/pattern"
	"github.com/yaklabco/domsplice/pkg/splice"
)

// ErrNoRules is returned when a run has nothing to apply.
var ErrNoRules = errors.New("no replacement rules configured")

// Rule is a compiled replacement rule.
type Rule struct {
	Name    string
	Pattern *pattern.Pattern
	Content splice.Content
	Group   int

	// Select is a CSS selector limiting the rule to matching subtrees.
	Select string

	Filter domtext.Filter
}

// CompileRules compiles every rule in cfg.
func CompileRules(cfg *config.Config) ([]Rule, error) {
	if len(cfg.Rules) == 0 {
		return nil, ErrNoRules
	}

	rules := make([]Rule, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		compiled, err := CompileRule(cfg, r)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, ruleName(r, i), err)
		}
		if compiled.Name == "" {
			compiled.Name = ruleName(r, i)
		}
		rules = append(rules, compiled)
	}
	return rules, nil
}

// CompileRule compiles one configured rule against the defaults in cfg.
// A bare pattern replaces every match; a /expr/flags literal follows its flags.
func CompileRule(cfg *config.Config, r config.Rule) (Rule, error) {
	engine := pattern.Engine(cfg.EffectiveEngine(r))
	pat, err := pattern.Parse(r.Pattern, pattern.Options{Global: true, Engine: engine})
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Name:    r.Name,
		Pattern: pat,
		Content: ruleContent(r),
		Group:   r.Group,
		Select:  cfg.EffectiveSelect(r),
		Filter:  domtext.ExcludeElements(cfg.EffectiveExclude(r)...),
	}, nil
}

func ruleContent(r config.Rule) splice.Content {
	switch {
	case r.Wrap != "" && r.Class != "":
		return splice.Template(&html.Node{
			Type:     html.ElementNode,
			Data:     r.Wrap,
			DataAtom: atom.Lookup([]byte(r.Wrap)),
			Attr:     []html.Attribute{{Key: "class", Val: r.Class}},
		})
	case r.Wrap != "":
		return splice.Tag(r.Wrap)
	case r.Literal:
		return splice.Text(r.Replace)
	default:
		return splice.ReplaceText(r.Replace)
	}
}

func ruleName(r config.Rule, index int) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("rule-%d", index+1)
}
