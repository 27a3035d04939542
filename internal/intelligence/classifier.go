package intelligence

import (
	"strings"

	"github.com/strideworks/stride/internal/domain"
)

// Intent is the classification result for a single message.
type Intent struct {
	Type                 domain.IntentType
	Confidence           float64
	RequiresExternalData bool
	Keywords             []string
}

// ConvContext is the slice of session state the classifier is allowed to
// see: enough to recognize follow-ups, nothing more.
type ConvContext struct {
	LastIntent   domain.IntentType
	MessageCount int
	// RecentText is a bounded window of recent turn contents, used by the
	// non_running override to detect in-context running vocabulary.
	RecentText string
}

// Established reports whether the conversation has enough prior state for
// follow-up heuristics to apply.
func (c ConvContext) Established() bool {
	return c.LastIntent != "" || c.MessageCount > 0
}

// ClassifierConfig holds the empirically tuned heuristic thresholds.
// These came from transcript tuning, not from a model; treat them as
// adjustable constants.
type ClassifierConfig struct {
	FollowUpMaxLen       int     // fast-path length cutoff
	FollowUpConfidence   float64 // fixed confidence for fast-path results
	OverrideMaxLen       int     // non_running override length cutoff
	SufficientConfidence float64 // below this, the router may consult the context classifier
}

// DefaultClassifierConfig returns the tuned defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		FollowUpMaxLen:       4,
		FollowUpConfidence:   0.6,
		OverrideMaxLen:       40,
		SufficientConfidence: 0.75,
	}
}

// PatternClassifier is the rule-based classifier: fast, deterministic, and
// dependency-free. It is both the primary fast path and the fallback when
// the context-aware classifier is unavailable.
type PatternClassifier struct {
	cfg ClassifierConfig
}

// NewPatternClassifier creates a PatternClassifier with the given config.
func NewPatternClassifier(cfg ClassifierConfig) *PatternClassifier {
	return &PatternClassifier{cfg: cfg}
}

// Classify evaluates the rule list top-to-bottom and returns the first
// match. Short in-context follow-ups take the fast path to general before
// low-priority rules can reject them.
func (c *PatternClassifier) Classify(text string, cctx ConvContext) Intent {
	for _, rule := range intentRules {
		if !rule.re.MatchString(text) {
			continue
		}
		if rule.confidence < c.cfg.SufficientConfidence && c.IsFollowUp(text, cctx) {
			// A weak off-domain match on an established conversation is
			// more likely a follow-up than a topic change.
			break
		}
		return Intent{
			Type:                 rule.intent,
			Confidence:           rule.confidence,
			RequiresExternalData: rule.requiresData,
			Keywords:             rule.keywords,
		}
	}

	if c.IsFollowUp(text, cctx) {
		return Intent{Type: domain.IntentGeneral, Confidence: c.cfg.FollowUpConfidence}
	}

	return Intent{Type: domain.IntentGeneral, Confidence: 0.5}
}

// IsFollowUp reports whether the fast-path heuristic fires: the
// conversation has established context and the message is short, opens
// with an acknowledgement token, or contains running vocabulary.
func (c *PatternClassifier) IsFollowUp(text string, cctx ConvContext) bool {
	if !cctx.Established() {
		return false
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= c.cfg.FollowUpMaxLen {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, tok := range ackTokens {
		if lower == tok || strings.HasPrefix(lower, tok+" ") || strings.HasPrefix(lower, tok+",") {
			return true
		}
	}
	return ContainsRunningTerm(lower)
}

// Override re-classifies a non_running result back to general when the
// message looks like a short, in-context running follow-up. The base rule
// list is biased toward rejecting short ambiguous messages; this corrects
// that for conversations already about running.
func (c *PatternClassifier) Override(intent Intent, text string, cctx ConvContext) Intent {
	if intent.Type != domain.IntentNonRunning {
		return intent
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > c.cfg.OverrideMaxLen {
		return intent
	}
	if gerundPattern.MatchString(trimmed) {
		return intent
	}
	if !c.IsFollowUp(text, cctx) && !ContainsRunningTerm(strings.ToLower(cctx.RecentText)) {
		return intent
	}
	conf := intent.Confidence
	if c.cfg.FollowUpConfidence > conf {
		conf = c.cfg.FollowUpConfidence
	}
	return Intent{Type: domain.IntentGeneral, Confidence: conf}
}

// Sufficient reports whether a pattern result is confident enough to skip
// the context-aware classifier.
func (c *PatternClassifier) Sufficient(intent Intent) bool {
	return intent.Confidence >= c.cfg.SufficientConfidence
}

// ContainsRunningTerm reports whether lowercased text mentions any
// running-domain term.
func ContainsRunningTerm(lower string) bool {
	for _, term := range runningVocab {
		if containsWord(lower, term) {
			return true
		}
	}
	return false
}

// containsWord matches term in s on word boundaries without regex cost.
func containsWord(s, term string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		beforeOK := i == 0 || !isWordByte(s[i-1])
		afterOK := end == len(s) || !isWordByte(s[end])
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
