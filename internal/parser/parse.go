package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command, or help to list them."}
		return intent
	}

	// Verb matching works on folded words; arguments keep their raw form.
	fields := strings.Fields(raw)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = normaliseInput(f)
	}
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		if inferred := inferFreeTextIntent(raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try help, new, craft, place, trace, inventory, stations, recipes, items, inspect, drop, save, load.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				{Raw: raw, Normalised: cmdMatch.Canonical, Kind: commandKind(cmdMatch.Canonical), Verb: cmdMatch.Canonical, Confidence: cmdMatch.Score},
				{Raw: raw, Normalised: alternates[0].Canonical, Kind: commandKind(alternates[0].Canonical), Verb: alternates[0].Canonical, Confidence: alternates[0].Score},
			},
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	args := fields[min(cmdMatch.Consumed, len(fields)):]
	def, _ := p.registry.command(intent.Verb)
	if def.Arg == ArgItem {
		args, intent.Quantity = splitQuantity(args)
	}

	resolved, clarify, argScore := p.resolveArgs(ctx, def, args)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolved
	intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))

	if len(intent.Args) < def.MinArgs {
		if options := buildArgOptions(ctx, def, 5); len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("What should I %s?", def.Canonical),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs at least %d argument(s).", def.Canonical, def.MinArgs)}
		intent.Confidence = 0.42
		return intent
	}
	if def.MaxArgs >= 0 && len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "trace", "inventory", "stations", "recipes", "items", "inspect":
		return Query
	default:
		return Command
	}
}

func splitQuantity(tokens []string) ([]string, *Quantity) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tokens))
	var q *Quantity
	for _, token := range tokens {
		if q == nil {
			if candidate := parseQuantityToken(token); candidate != nil {
				q = candidate
				continue
			}
		}
		out = append(out, token)
	}
	return out, q
}

func (p *Parser) resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, *ClarifyQuestion, float64) {
	if len(args) == 0 {
		return nil, nil, 0.9
	}
	resolved := make([]string, 0, len(args))
	score := 0.9
	start := 0

	switch def.Arg {
	case ArgRecipe, ArgItem:
		candidates := ctx.Recipes
		if def.Arg == ArgItem {
			candidates = ctx.Items
		}
		joined, used := joinExact(args, candidates)
		matches, confidence, tie := bestMatches(joined, candidates)
		switch {
		case tie:
			options := make([]Intent, 0, 2)
			for idx := 0; idx < 2; idx++ {
				options = append(options, Intent{
					Kind:       commandKind(def.Canonical),
					Verb:       def.Canonical,
					Args:       append([]string{matches[idx]}, args[used:]...),
					Confidence: confidence - float64(idx)*0.01,
				})
			}
			return nil, &ClarifyQuestion{Prompt: fmt.Sprintf("Did you mean %s?", def.Canonical), Options: options}, 0.52
		case len(matches) == 1:
			resolved = append(resolved, matches[0])
			score = min(score, confidence)
		default:
			// Unknown ids pass through so the engine can report suggestions.
			resolved = append(resolved, joined)
			score -= 0.02
		}
		start = used
	case ArgRef:
		token := args[0]
		if isPronoun(token) {
			if strings.TrimSpace(ctx.LastRef) == "" {
				return nil, &ClarifyQuestion{Prompt: "What does that refer to?"}, 0.4
			}
			token = ctx.LastRef
			score -= 0.08
		}
		resolved = append(resolved, strings.TrimPrefix(token, "#"))
		start = 1
	}

	resolved = append(resolved, args[start:]...)
	return resolved, nil, clampScore(score)
}

// joinExact greedily glues up to three leading words with underscores when
// the result names a known id, so "iron bar" resolves to iron_bar.
func joinExact(args []string, candidates []string) (string, int) {
	for n := min(3, len(args)); n > 1; n-- {
		try := normaliseID(strings.Join(args[:n], "_"))
		for _, c := range candidates {
			if c == try {
				return try, n
			}
		}
	}
	return normaliseID(args[0]), 1
}

func bestMatches(token string, all []string) ([]string, float64, bool) {
	if len(all) == 0 || token == "" {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}
	results := make([]scored, 0, len(all))
	for _, cand := range all {
		var score float64
		switch {
		case token == cand:
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		default:
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		results = append(results, scored{val: cand, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	if best.score == 1.0 {
		return []string{best.val}, best.score, false
	}
	if len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6 {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildArgOptions(ctx ParseContext, def CommandDef, maxOptions int) []Intent {
	var pool []string
	switch def.Arg {
	case ArgRecipe:
		pool = ctx.Recipes
	case ArgItem:
		pool = ctx.Items
	case ArgRef:
		if ctx.LastRef != "" {
			pool = []string{ctx.LastRef}
		}
	}
	options := make([]Intent, 0, maxOptions)
	for _, v := range pool {
		options = append(options, Intent{
			Kind:       commandKind(def.Canonical),
			Verb:       def.Canonical,
			Args:       []string{v},
			Confidence: 0.88,
		})
		if len(options) >= maxOptions {
			break
		}
	}
	return options
}

func inferFreeTextIntent(raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "what do i have", "what have i got", "show my inventory", "my inventory", "show inventory") {
		return makeIntent(Query, "inventory", nil, 0.92)
	}
	if containsAnyPhrase(n, "what can i make", "what can i craft", "show recipes", "list recipes") {
		return makeIntent(Query, "recipes", nil, 0.88)
	}
	if containsAnyPhrase(n, "what is placed", "what have i placed", "show stations", "list stations") {
		return makeIntent(Query, "stations", nil, 0.86)
	}
	if containsAnyPhrase(n, "where did", "how was", "how did i make", "what went into") {
		for _, token := range tokenise(n) {
			if _, err := strconv.Atoi(token); err == nil {
				return makeIntent(Query, "trace", []string{token}, 0.8)
			}
		}
	}
	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args)+1)
	for _, arg := range intent.Args {
		if a := strings.TrimSpace(arg); a != "" {
			args = append(args, a)
		}
	}
	if intent.Quantity != nil && intent.Quantity.Raw != "" {
		args = append(args, intent.Quantity.Raw)
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
