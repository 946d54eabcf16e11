// Package workshop runs text commands against a crafting registry.
package workshop

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/appengine-ltd/craftworks/internal/archive"
	"github.com/appengine-ltd/craftworks/internal/crafting"
	"github.com/appengine-ltd/craftworks/internal/parser"
)

// Result is the outcome of one command. Handled is false only for blank
// input. A failed command reports through Message and changes no state.
type Result struct {
	Handled bool
	Message string
	Quit    bool
}

type Option func(*Workshop)

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workshop) {
		w.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Workshop) {
		if now != nil {
			w.now = now
		}
	}
}

// WithAutoSave writes the archive to path after every command that changes
// state.
func WithAutoSave(path string) Option {
	return func(w *Workshop) {
		w.autosave = strings.TrimSpace(path)
	}
}

type Workshop struct {
	// fresh builds an empty registry over the loaded catalog; load swaps
	// one in so a failed restore leaves the current state alone.
	fresh    func() *crafting.Registry
	registry *crafting.Registry
	parser   *parser.Parser
	logger   zerolog.Logger
	now      func() time.Time
	autosave string
	lastRef  string
}

func New(fresh func() *crafting.Registry, opts ...Option) *Workshop {
	w := &Workshop{
		fresh:    fresh,
		registry: fresh(),
		parser:   parser.New(),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workshop) Registry() *crafting.Registry {
	return w.registry
}

// Execute parses and runs one line of input.
func (w *Workshop) Execute(line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{Handled: false}
	}
	intent := w.parser.Parse(w.parseContext(), line)
	if intent.Clarify != nil {
		return Result{Handled: true, Message: clarifyMessage(intent.Clarify)}
	}
	return w.Run(intent)
}

// Run dispatches an already parsed intent.
func (w *Workshop) Run(intent parser.Intent) Result {
	var (
		res     Result
		mutated bool
	)
	switch intent.Verb {
	case "help":
		res = w.help(intent.Args)
	case "new":
		res, mutated = w.spawn(intent)
	case "craft":
		res, mutated = w.craft(intent.Args)
	case "place":
		res, mutated = w.place(firstArg(intent.Args))
	case "drop":
		res, mutated = w.drop(firstArg(intent.Args))
	case "trace":
		res = w.trace(firstArg(intent.Args))
	case "inspect":
		res = w.inspect(firstArg(intent.Args))
	case "inventory":
		res = w.inventory()
	case "stations":
		res = w.stations()
	case "recipes":
		res = w.recipes(firstArg(intent.Args))
	case "items":
		res = w.items(firstArg(intent.Args))
	case "save":
		res = w.save(firstArg(intent.Args))
	case "load":
		res = w.load(firstArg(intent.Args))
	case "quit":
		return Result{Handled: true, Message: "Bye.", Quit: true}
	default:
		return Result{Handled: true, Message: fmt.Sprintf("Unknown command %q. Try help.", intent.Verb)}
	}

	w.logger.Debug().Str("verb", intent.Verb).Strs("args", intent.Args).Bool("mutated", mutated).Msg("command")
	if mutated && w.autosave != "" {
		if err := archive.WriteFile(w.autosave, w.registry.Export()); err != nil {
			w.logger.Error().Err(err).Str("path", w.autosave).Msg("autosave failed")
			res.Message += fmt.Sprintf("\nAutosave failed: %v", err)
		}
	}
	return res
}

// Load restores an archive into a fresh registry and swaps it in.
func (w *Workshop) Load(path string) error {
	state, err := archive.ReadFile(path)
	if err != nil {
		return err
	}
	next := w.fresh()
	if err := next.Import(state); err != nil {
		return err
	}
	w.registry = next
	w.lastRef = ""
	w.logger.Info().Str("path", path).Int("ledger", len(state.Ledger)).Int("live", len(state.Live)).Msg("archive loaded")
	return nil
}

func (w *Workshop) Save(path string) error {
	state := w.registry.Export()
	if err := archive.WriteFile(path, state); err != nil {
		return err
	}
	w.logger.Info().Str("path", path).Int("ledger", len(state.Ledger)).Msg("archive saved")
	return nil
}

func (w *Workshop) parseContext() parser.ParseContext {
	ctx := parser.ParseContext{LastRef: w.lastRef}
	for _, r := range w.registry.Recipes() {
		ctx.Recipes = append(ctx.Recipes, string(r.RecipeID()))
	}
	for _, def := range w.registry.Items() {
		if _, ok := def.Kind.(crafting.SimpleItem); ok {
			ctx.Items = append(ctx.Items, string(def.ID))
		}
	}
	return ctx
}

func clarifyMessage(q *parser.ClarifyQuestion) string {
	if len(q.Options) == 0 {
		return q.Prompt
	}
	options := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, parser.IntentToCommandString(opt))
	}
	return q.Prompt + " " + strings.Join(options, " | ")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
