package parse

// Grammar holds one parser object per production.
// It is built once, on package initialization, and never modified after.
type Grammar struct {
	Type *Forward

	Scalar   Parser
	Array    Parser
	Struct   Parser
	NamedRef Parser
	Suffix   Parser

	TypeDef   Parser
	GlobalDef Parser
	Noise     Parser
	Module    Parser
}

var grammar = newGrammar()

func newGrammar() *Grammar {
	g := &Grammar{
		Type: NewForward(),
	}

	g.buildTypes()
	g.buildDefs()

	return g
}
