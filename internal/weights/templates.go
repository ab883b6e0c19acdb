package weights

// Demographic templates. Each one leans positive on purpose: real survey
// answers show acquiescence and positivity bias, and the goal is data
// that looks like a real response set rather than a neutral spread.

// Pattern ties title keywords to a fixed template. Keywords are matched
// against the upper-cased title.
type Pattern struct {
	Name     string
	Keywords []string
	Template []int
}

// DefaultPatterns is checked in order; the first pattern with a keyword
// in the title decides, and it only applies when its length matches the
// option count.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "age", Keywords: []string{"AGE"}, Template: []int{8, 25, 35, 20, 8, 4}},
		{Name: "year", Keywords: []string{"YEAR"}, Template: []int{5, 10, 45, 30, 8, 2}},
		{Name: "satisfaction", Keywords: []string{"SATISFACTION"}, Template: []int{3, 7, 15, 45, 30}},
		{Name: "rate", Keywords: []string{"RATE"}, Template: []int{2, 8, 20, 45, 25}},
		{Name: "likelihood", Keywords: []string{"LIKELY", "LIKELIHOOD"}, Template: []int{5, 10, 25, 40, 20}},
		{Name: "income", Keywords: []string{"INCOME"}, Template: []int{20, 30, 30, 15, 5}},
		{Name: "education", Keywords: []string{"EDUCATION"}, Template: []int{5, 25, 40, 20, 10}},
	}
}

// likertTemplates is keyed by option count. Other counts fall through.
var likertTemplates = map[int][]int{
	4: {5, 15, 50, 30},
	5: {5, 10, 20, 45, 20},
	7: {3, 5, 10, 22, 35, 15, 10},
}

// bellTemplates are the generic skewed defaults, keyed by option count.
var bellTemplates = map[int][]int{
	3: {20, 55, 25},
	4: {10, 35, 40, 15},
	5: {5, 15, 40, 30, 10},
}

// binaryTemplate biases yes/no questions toward the affirmative.
var binaryTemplate = []int{75, 25}

const (
	genderBase   = 49
	optOutBase   = 2
	strongNegPct = 5
	mildNegPct   = 10
)
