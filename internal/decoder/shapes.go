package decoder

// OptionShape names one of the known layouts of the option field
// (entry[4]) in a raw question entry.
type OptionShape int

const (
	// ShapeNone means no known layout matched; the question has no options.
	ShapeNone OptionShape = iota
	// ShapeDirect: entry[4] = [[text, ...], [text, ...], ...]
	ShapeDirect
	// ShapeNested: entry[4] = [[[text, ...], [text, ...], ...]]
	ShapeNested
	// ShapeField: entry[4] = [[fieldID, [[text, ...], ...], required, ...]]
	ShapeField
)

func (s OptionShape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeNested:
		return "nested"
	case ShapeField:
		return "field"
	default:
		return "none"
	}
}

// shapeProbe locates the tuple list for one shape. It returns nil when
// the path does not exist.
type shapeProbe struct {
	shape  OptionShape
	tuples func(field []any) []any
}

// shapeProbes is tried in order; the first probe whose tuple list passes
// leadsWithText wins.
var shapeProbes = []shapeProbe{
	{ShapeDirect, func(field []any) []any {
		return field
	}},
	{ShapeNested, func(field []any) []any {
		return seqAt(field, 0)
	}},
	{ShapeField, func(field []any) []any {
		return seqAt(field, 0, 1)
	}},
}

// DetectShape reports which layout the option field uses and returns its
// tuple list.
func DetectShape(field any) (OptionShape, []any) {
	seq, ok := field.([]any)
	if !ok || len(seq) == 0 {
		return ShapeNone, nil
	}
	for _, p := range shapeProbes {
		tuples := p.tuples(seq)
		if leadsWithText(tuples) {
			return p.shape, tuples
		}
	}
	return ShapeNone, nil
}

// leadsWithText is the structural test shared by all shapes: the list is
// non-empty and its first element is a tuple whose first element is text.
func leadsWithText(tuples []any) bool {
	if len(tuples) == 0 {
		return false
	}
	first, ok := tuples[0].([]any)
	if !ok || len(first) == 0 {
		return false
	}
	_, ok = first[0].(string)
	return ok
}
