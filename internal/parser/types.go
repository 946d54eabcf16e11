package parser

type IntentKind int

const (
	Command IntentKind = iota
	Query
	Help
	Unknown
)

// ArgKind says how a command's first argument is resolved.
type ArgKind int

const (
	ArgNone ArgKind = iota
	// ArgRecipe and ArgItem are fuzzy matched against catalog ids.
	ArgRecipe
	ArgItem
	// ArgRef is an inventory index or instance id; pronouns resolve to the
	// last referenced instance.
	ArgRef
	// ArgPath is passed through untouched.
	ArgPath
)

type Quantity struct {
	Raw  string
	N    int
	Unit string
}

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Args       []string
	Quantity   *Quantity
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext carries what the parser may resolve arguments against.
type ParseContext struct {
	Recipes []string
	Items   []string
	LastRef string
}

type CommandDef struct {
	Canonical  string
	Aliases    []string
	MinArgs    int
	MaxArgs    int
	Arg        ArgKind
	HandlerKey string
}
