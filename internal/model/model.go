// Package model defines core data structures for logmagic.
package model

// Direction tells whether a log statement goes below or above the cursor line.
type Direction string

const (
	Down Direction = "down"
	Up   Direction = "up"
)

// ConstructKind indicates the syntactic construct a line represents.
type ConstructKind string

const (
	Unknown       ConstructKind = "unknown"
	Assignment    ConstructKind = "assignment"
	Destructure   ConstructKind = "destructure"
	ParameterList ConstructKind = "parameters"
	ArgumentList  ConstructKind = "arguments"
	Return        ConstructKind = "return"
	Condition     ConstructKind = "condition"
)

// Segment is a balanced substring of a line; Start and End are byte offsets.
type Segment struct {
	Text  string
	Start int
	End   int
}

// Construct is the classifier's verdict for a line.
// Label is the name shown as the first string of the log call (assignee,
// function name, callee or keyword); Text is the sub-expression the
// extractor works on.
type Construct struct {
	Kind  ConstructKind
	Label string
	Text  string
}

// Candidate is a value worth logging.
type Candidate struct {
	Name    string // bound name or raw expression
	Source  string // property name when the binding was renamed
	Default string // default-value hint, never logged
	Literal bool   // string literal, logged without a key
}

// LogStatement is a rendered log call.
type LogStatement struct {
	Text  string
	Level string
	Line  int
}

// Edit is an instruction for the host buffer. When Replace is set, Line is
// replaced by Text; otherwise Text is inserted as a new line so that it ends
// up at Line.
type Edit struct {
	Line    int
	Text    string
	Replace bool
	Level   string
}

// Range is an inclusive, 1-based span of lines holding one log statement.
type Range struct {
	StartLine int
	EndLine   int
	Level     string
}

// Match is a log statement found in a file, used for reports.
type Match struct {
	File  string
	Range Range
	Text  string
}

// FileReport holds the log statements found in a single file.
type FileReport struct {
	Path    string
	Dialect string
	Matches []Match
	Removed bool
}

// Report is the result of scanning or stripping a tree of files.
type Report struct {
	Root  string
	Files []FileReport
}
