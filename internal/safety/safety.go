// Package safety screens user input for prompt injection and prefix
// attacks before it reaches the model. Evaluation is advisory: the caller
// decides whether a failing score blocks the request or is only logged.
package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// safeThreshold is the minimum score an input needs to pass.
const safeThreshold = 0.6

// injectionPatterns match known prompt-injection and jailbreak phrasings.
var injectionPatterns = compileAll([]string{
	`ignore\s+(?:all\s+)?(?:previous|prior|above)\s+(?:instructions|prompts|commands)`,
	`disregard\s+(?:all\s+)?(?:previous|prior|above)\s+(?:instructions|prompts|commands)`,
	`forget\s+(?:all\s+)?(?:previous|prior|above)\s+(?:instructions|prompts|commands)`,
	`override\s+(?:system|safety|security)\s+(?:instructions|protocols|settings)`,
	`(?:system|prompt)\s+(?:prompt\s+)?override`,
	`bypass\s+(?:all\s+)?(?:safety|security)\s+(?:checks|protocols|settings)`,
	`act\s+as\s+(?:if\s+)?you\s+(?:are|were)\s+(?:not|no\s+longer)\s+(?:restricted|limited|bound)`,
	`you\s+(?:are|have)\s+been\s+(?:jailbroken|freed|liberated)`,
	`new\s+(?:instructions|commands|directives)\s*:`,
	`system\s+(?:prompt|message)\s*:`,
	`developer\s+(?:mode|override|bypass)`,
	`sudo\s+(?:mode|access|override)`,
	`admin\s+(?:mode|access|override)`,
	`pretend\s+you\s+are\s+(?:not|no\s+longer)\s+an?\s+(?:ai|assistant|chatbot)`,
})

// prefixPatterns match attacks that lead the input, which carry a higher
// penalty than matches buried mid-sentence.
var prefixPatterns = compileAll([]string{
	`^ignore\s+previous`,
	`^disregard\s+previous`,
	`^forget\s+everything`,
	`^new\s+instruction:`,
	`^system:`,
	`^override:`,
})

// sensitiveOperations are phrases that move money or place calls. In
// strict mode each mention lowers the score.
var sensitiveOperations = []string{
	"send_airtime",
	"send_message",
	"send_whatsapp",
	"make_voice_call",
	"send_mobile_data",
	"send airtime",
	"send message",
	"voice call",
	"mobile data",
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// CheckResult is the outcome of one safety evaluation.
type CheckResult struct {
	Safe    bool     `json:"safe"`
	Score   float64  `json:"score"`
	Flagged []string `json:"flagged,omitempty"`
	Message string   `json:"message"`
}

// Checker evaluates user input against the pattern sets.
type Checker struct {
	strict bool
}

// NewChecker creates a checker. In strict mode mentions of sensitive
// operations reduce the score as well.
func NewChecker(strict bool) *Checker {
	return &Checker{strict: strict}
}

// Evaluate scores one input. The score starts at 1.0, loses 0.5 for any
// injection match and 0.5 for any prefix attack, and in strict mode 0.1
// per sensitive operation mentioned. Inputs scoring below 0.6 are unsafe.
func (c *Checker) Evaluate(input string) CheckResult {
	lower := strings.ToLower(input)

	var flagged []string
	injectionHit := false
	for _, re := range injectionPatterns {
		if re.MatchString(lower) {
			injectionHit = true
			flagged = append(flagged, "injection:"+re.String())
		}
	}

	prefixHit := false
	for _, re := range prefixPatterns {
		if re.MatchString(lower) {
			prefixHit = true
			flagged = append(flagged, "prefix_attack:"+re.String())
		}
	}

	var detected []string
	for _, op := range sensitiveOperations {
		if strings.Contains(lower, op) {
			detected = append(detected, op)
		}
	}

	score := 1.0
	if injectionHit {
		score -= 0.5
	}
	if prefixHit {
		score -= 0.5
	}
	if c.strict {
		score -= 0.1 * float64(len(detected))
	}
	if score < 0 {
		score = 0
	}

	safe := score >= safeThreshold

	var message string
	switch {
	case safe && len(detected) > 0:
		message = fmt.Sprintf("Input passed safety checks. Detected operations: %s", strings.Join(detected, ", "))
	case safe:
		message = "Input passed all safety checks."
	default:
		message = fmt.Sprintf("Input failed safety checks. Detected %d violations. Safety score: %.2f", len(flagged), score)
	}

	return CheckResult{
		Safe:    safe,
		Score:   score,
		Flagged: flagged,
		Message: message,
	}
}

// Report renders a human-readable evaluation, used by the CLI.
func (c *Checker) Report(input string) string {
	result := c.Evaluate(input)

	status := "UNSAFE"
	if result.Safe {
		status = "SAFE"
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "SAFETY EVALUATION REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Score: %.2f/1.00\n", result.Score)
	fmt.Fprintf(&b, "Violations: %d\n", len(result.Flagged))
	fmt.Fprintf(&b, "\n%s\n", result.Message)
	if len(result.Flagged) > 0 {
		fmt.Fprintln(&b, "\nFlagged patterns:")
		for _, p := range result.Flagged {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}
