package registry

// Outcome is where a step in the substantial equivalence flowchart can land.
type Outcome string

const (
	// OutcomeContinue means review proceeds to the next decision point.
	OutcomeContinue Outcome = "continue"
	// OutcomeSE is a substantially equivalent determination.
	OutcomeSE Outcome = "substantially equivalent"
	// OutcomeNSE is a not substantially equivalent determination.
	OutcomeNSE Outcome = "not substantially equivalent"
	// OutcomeAIRequest means the data gap draws an Additional
	// Information request before any determination issues.
	OutcomeAIRequest Outcome = "additional information request"
)

// DecisionPoint is one question in the SE decision sequence. IfNo is the
// terminal outcome when the answer is no; a yes answer always continues
// to the next point, except at the final point where yes is SE.
type DecisionPoint struct {
	Number   int
	Question string
	IfYes    Outcome
	IfNo     Outcome
	Note     string
}

// decisionSequence follows the 510(k) SE flowchart from the decision-making
// guidance. Point 3 is the only one where "no" does not immediately end the
// review: different technological characteristics move the question to
// whether those differences raise new questions of safety or effectiveness.
var decisionSequence = []DecisionPoint{
	{
		Number:   1,
		Question: "Is the predicate device legally marketed?",
		IfYes:    OutcomeContinue,
		IfNo:     OutcomeNSE,
		Note:     "A predicate removed from the market for safety or effectiveness reasons cannot anchor an SE finding.",
	},
	{
		Number:   2,
		Question: "Does the new device have the same intended use as the predicate?",
		IfYes:    OutcomeContinue,
		IfNo:     OutcomeNSE,
		Note:     "Intended use is judged from the proposed labeling, not the indications wording alone.",
	},
	{
		Number:   3,
		Question: "Does the new device have the same technological characteristics as the predicate?",
		IfYes:    OutcomeContinue,
		IfNo:     OutcomeContinue,
		Note:     "Same characteristics skip to performance data; different characteristics go to point 4.",
	},
	{
		Number:   4,
		Question: "Do the different technological characteristics raise new questions of safety or effectiveness?",
		IfYes:    OutcomeNSE,
		IfNo:     OutcomeContinue,
	},
	{
		Number:   5,
		Question: "Do the performance data demonstrate the device is as safe and effective as the predicate?",
		IfYes:    OutcomeSE,
		IfNo:     OutcomeAIRequest,
		Note:     "NSE issues when the response to the AI request is inadequate or the applicant cannot generate the data.",
	},
}

// DecisionSequence returns the SE flowchart in review order.
func DecisionSequence() []DecisionPoint {
	out := make([]DecisionPoint, len(decisionSequence))
	copy(out, decisionSequence)
	return out
}

// Evaluate walks the sequence against a set of yes/no answers keyed by
// point number and returns the resulting determination. Missing answers
// stop the walk with OutcomeContinue, meaning the review is still open.
func Evaluate(answers map[int]bool) Outcome {
	for _, pt := range decisionSequence {
		yes, ok := answers[pt.Number]
		if !ok {
			return OutcomeContinue
		}

		outcome := pt.IfNo
		if yes {
			outcome = pt.IfYes
		}
		if outcome != OutcomeContinue {
			return outcome
		}

		// Same technological characteristics jump straight to the
		// performance data question.
		if pt.Number == 3 && yes {
			perfYes, ok := answers[5]
			if !ok {
				return OutcomeContinue
			}
			if perfYes {
				return OutcomeSE
			}
			return OutcomeAIRequest
		}
	}
	return OutcomeContinue
}
