package classify

import "regexp"

var defaultGroupPatterns = map[Group]*regexp.Regexp{
	GroupAge:        regexp.MustCompile(`(?i)\bage\b|age.?group|age.?range|how old`),
	GroupProfession: regexp.MustCompile(`(?i)profession|occupation|employment|job\b|work|designation|working|career`),
	GroupIncome:     regexp.MustCompile(`(?i)income|salary|earn|earning|stipend|pocket.?money|monthly|annual|ctc|pay`),
	GroupEducation:  regexp.MustCompile(`(?i)education|qualification|degree|class|standard|studying|school|college|university`),
}

var defaultClassPatterns = map[OptionClass]*regexp.Regexp{
	ClassUnder18:      regexp.MustCompile(`(?i)under.?18|below.?18|<\s*18|13.?17|14.?17|15.?17|less than 18|minor|child`),
	ClassYoungAdult:   regexp.MustCompile(`(?i)18.?2[0-5]|18.?to.?2[0-5]|19.?24|18.?24|20.?25`),
	ClassStudent:      regexp.MustCompile(`(?i)student|school|college|studying|learner|pupil|intern|fresher`),
	ClassWorking:      regexp.MustCompile(`(?i)working|professional|employed|job|business|self.?employ|entrepreneur|manager|director|executive|engineer|doctor|lawyer`),
	ClassRetired:      regexp.MustCompile(`(?i)retire|pension|senior.?citizen`),
	ClassHighIncome:   regexp.MustCompile(`(?i)50[\s,]*000|60[\s,]*000|70[\s,]*000|80[\s,]*000|90[\s,]*000|1[\s,]*00[\s,]*000|1[\s,]*lakh|2[\s,]*lakh|5[\s,]*lakh|above.?50|more than 50|[₹$]\s*50|[₹$]\s*1[\s,]*00`),
	ClassLowIncome:    regexp.MustCompile(`(?i)no.?income|none|zero|nil|below.?5|under.?5|0.?to|less.?than.?10|pocket.?money|below.?10|under.?10|0.?5`),
	ClassPostGraduate: regexp.MustCompile(`(?i)master|phd|doctorate|post.?grad|m\.?tech|m\.?sc|mba|m\.?a\b|m\.?com|m\.?ed`),
	ClassSchool:       regexp.MustCompile(`(?i)school|10th|12th|high.?school|secondary|ssc|hsc|class.?[0-9]|intermediate`),
}
