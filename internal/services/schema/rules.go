package schema

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/dernek/internal/models"
)

// ruleEnv is the expression environment for custom rules
type ruleEnv struct {
	Value any `expr:"value"`
}

// ruleSet compiles and caches the regexps and expressions rules refer to.
// It is safe for concurrent use.
type ruleSet struct {
	validate *validator.Validate

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
	programs map[string]*vm.Program
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		validate: validator.New(),
		patterns: make(map[string]*regexp.Regexp),
		programs: make(map[string]*vm.Program),
	}
}

// prepare compiles everything a rule needs, reporting malformed rules up front
func (r *ruleSet) prepare(rule models.Rule) error {
	switch rule.Kind {
	case models.RuleRequired, models.RuleEmail, models.RuleURL:
		return nil
	case models.RuleMinLength, models.RuleMaxLength:
		if rule.Length < 0 {
			return fmt.Errorf("%s rule has negative length %d", rule.Kind, rule.Length)
		}
		return nil
	case models.RulePattern:
		_, err := r.pattern(rule.Pattern)
		return err
	case models.RuleCustom:
		if rule.Check != nil {
			return nil
		}
		if rule.Expr == "" {
			return fmt.Errorf("custom rule needs an expression or a check function")
		}
		_, err := r.program(rule.Expr)
		return err
	default:
		return fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
}

func (r *ruleSet) pattern(source string) (*regexp.Regexp, error) {
	r.mu.RLock()
	re, ok := r.patterns[source]
	r.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}

	r.mu.Lock()
	r.patterns[source] = re
	r.mu.Unlock()
	return re, nil
}

func (r *ruleSet) program(source string) (*vm.Program, error) {
	r.mu.RLock()
	program, ok := r.programs[source]
	r.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(source,
		expr.Env(ruleEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid rule expression %q: %w", source, err)
	}

	r.mu.Lock()
	r.programs[source] = program
	r.mu.Unlock()
	return program, nil
}

// passes evaluates one rule. Rules that do not apply to the value's kind pass.
func (r *ruleSet) passes(rule models.Rule, value models.Document) bool {
	switch rule.Kind {
	case models.RuleRequired:
		// Content beyond the null/empty-string check: empty lists and maps fail too
		if value.IsEmpty() {
			return false
		}
		if value.Kind() == models.KindList || value.Kind() == models.KindMap {
			return value.Len() > 0
		}
		return true

	case models.RuleMinLength:
		return r.length(value, fmt.Sprintf("min=%d", rule.Length))

	case models.RuleMaxLength:
		return r.length(value, fmt.Sprintf("max=%d", rule.Length))

	case models.RuleEmail:
		return r.eachString(value, "email")

	case models.RuleURL:
		return r.eachString(value, "url")

	case models.RulePattern:
		re, err := r.pattern(rule.Pattern)
		if err != nil {
			return false
		}
		return matchStrings(re, value)

	case models.RuleCustom:
		if rule.Check != nil {
			return rule.Check(value)
		}
		program, err := r.program(rule.Expr)
		if err != nil {
			return false
		}
		result, err := expr.Run(program, ruleEnv{Value: value.ToAny()})
		if err != nil {
			return false
		}
		ok, isBool := result.(bool)
		return isBool && ok

	default:
		return false
	}
}

// length applies a validator length tag to strings (rune count) and lists (element count)
func (r *ruleSet) length(value models.Document, tag string) bool {
	switch value.Kind() {
	case models.KindString:
		s, _ := value.AsString()
		return r.validate.Var(s, tag) == nil
	case models.KindList:
		items, _ := value.AsList()
		return r.validate.Var(items, tag) == nil
	default:
		return true
	}
}

// eachString applies a validator format tag to a string or every string in a list
func (r *ruleSet) eachString(value models.Document, tag string) bool {
	switch value.Kind() {
	case models.KindString:
		s, _ := value.AsString()
		return r.validate.Var(s, tag) == nil
	case models.KindList:
		items, _ := value.AsList()
		for _, item := range items {
			s, ok := item.AsString()
			if !ok || r.validate.Var(s, tag) != nil {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func matchStrings(re *regexp.Regexp, value models.Document) bool {
	switch value.Kind() {
	case models.KindString:
		s, _ := value.AsString()
		return re.MatchString(s)
	case models.KindList:
		items, _ := value.AsList()
		for _, item := range items {
			s, ok := item.AsString()
			if ok && !re.MatchString(s) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
