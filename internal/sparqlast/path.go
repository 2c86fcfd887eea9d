package sparqlast

// Path types as they appear in the "type" field of a path object.
const (
	PathLink    = "link"
	PathMod     = "mod"
	PathInverse = "inverse"
	PathSeq     = "seq"
	PathAlt     = "alt"
)

// Modifiers of a Mod path.
const (
	ModOneOrMore  = "+"
	ModZeroOrMore = "*"
	ModZeroOrOne  = "?"
	ModCustom     = "custom"
)

// Path is a property path expression.
//
// This is a sealed interface - only types in this package can implement it.
// Variants: *Link, *Mod, *Inverse, *Seq, *Alt, *OpaquePath.
type Path interface {
	PathType() string
	path() // marker method prevents external implementations
}

// Link is a single predicate IRI.
type Link struct {
	URI string
}

// Mod applies a repetition modifier to a sub-path. Min and Max are only set
// for the "custom" modifier ({n,m} forms).
type Mod struct {
	Modifier string
	Min      *int64
	Max      *int64
	Sub      Path
}

// Inverse is ^path.
type Inverse struct {
	Sub Path
}

// Seq is left/right.
type Seq struct {
	Left, Right Path
}

// Alt is left|right.
type Alt struct {
	Left, Right Path
}

// OpaquePath is any path type without its own variant, e.g. "complex".
// Fields holds every key except "type", as decoded.
type OpaquePath struct {
	Type   string
	Fields map[string]any
}

func (*Link) PathType() string         { return PathLink }
func (*Mod) PathType() string          { return PathMod }
func (*Inverse) PathType() string      { return PathInverse }
func (*Seq) PathType() string          { return PathSeq }
func (*Alt) PathType() string          { return PathAlt }
func (p *OpaquePath) PathType() string { return p.Type }

func (*Link) path()       {}
func (*Mod) path()        {}
func (*Inverse) path()    {}
func (*Seq) path()        {}
func (*Alt) path()        {}
func (*OpaquePath) path() {}
