package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if c.HandlerKey == "" {
		c.HandlerKey = c.Canonical
	}
	r.commands[c.Canonical] = c

	for _, phrase := range append([]string{c.Canonical}, c.Aliases...) {
		n := normaliseInput(phrase)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	cmd, ok := r.commands[normaliseInput(canonical)]
	return cmd, ok
}

// Commands returns every registered command sorted by canonical name.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

// match scores tokens against one phrase: exact and alias hits first, then
// single word prefixes, then a levenshtein fallback.
func (p commandPhrase) match(tokens []string) (commandCandidate, bool) {
	if len(p.tokens) == 0 || len(tokens) == 0 {
		return commandCandidate{}, false
	}
	cand := commandCandidate{Canonical: p.canonical, Alias: p.alias}
	consumed := min(len(tokens), len(p.tokens))
	prefix := strings.Join(tokens[:consumed], " ")

	if consumed == len(p.tokens) && prefix == p.alias {
		cand.Consumed, cand.Score, cand.Source = consumed, 1.0, "exact"
		if p.alias != p.canonical {
			cand.Score, cand.Source = 0.97, "alias"
		}
		return cand, true
	}
	if len(p.tokens) == 1 && len(tokens[0]) >= 2 && strings.HasPrefix(p.alias, tokens[0]) {
		cand.Consumed, cand.Score, cand.Source = 1, 0.9, "prefix"
		return cand, true
	}

	if len(prefix) < 3 {
		return commandCandidate{}, false
	}
	dist := levenshtein.ComputeDistance(prefix, p.alias)
	if dist > levenshteinLimit(len(p.alias)) {
		return commandCandidate{}, false
	}
	cand.Consumed, cand.Source = consumed, "lev"
	cand.Score = 0.72 - (0.08 * float64(dist))
	if p.alias != p.canonical {
		cand.Score += 0.03
	}
	return cand, true
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if c, ok := phrase.match(tokens); ok {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return commandCandidate{}, nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "?", "commands"}, MaxArgs: 1},
		{Canonical: "new", Aliases: []string{"spawn", "gather", "get"}, MinArgs: 1, MaxArgs: 1, Arg: ArgItem},
		{Canonical: "craft", Aliases: []string{"make", "build", "assemble"}, MinArgs: 1, MaxArgs: 24, Arg: ArgRecipe},
		{Canonical: "place", Aliases: []string{"put down", "set down", "install"}, MinArgs: 1, MaxArgs: 1, Arg: ArgRef},
		{Canonical: "trace", Aliases: []string{"history", "provenance", "origin"}, MinArgs: 1, MaxArgs: 1, Arg: ArgRef},
		{Canonical: "inventory", Aliases: []string{"inv", "i", "bag", "ls"}},
		{Canonical: "stations", Aliases: []string{"world", "placed"}},
		{Canonical: "recipes", Aliases: []string{"recipe book", "book"}, MaxArgs: 1},
		{Canonical: "items", Aliases: []string{"catalog", "catalogue"}, MaxArgs: 1},
		{Canonical: "inspect", Aliases: []string{"examine", "look at", "x"}, MinArgs: 1, MaxArgs: 1, Arg: ArgRef},
		{Canonical: "drop", Aliases: []string{"discard", "destroy"}, MinArgs: 1, MaxArgs: 1, Arg: ArgRef},
		{Canonical: "save", MinArgs: 1, MaxArgs: 1, Arg: ArgPath},
		{Canonical: "load", Aliases: []string{"restore"}, MinArgs: 1, MaxArgs: 1, Arg: ArgPath},
		{Canonical: "quit", Aliases: []string{"exit", "q"}},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
