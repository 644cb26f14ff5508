package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const controlIDPrefix = "intake-"

// DefaultLoaderIcon is shown inside the submit button while a submission is
// in flight.
const DefaultLoaderIcon = "/assets/icons/loader.svg"

// DefaultSubmitClass styles the submit button.
const DefaultSubmitClass = "shad-primary-btn w-full"

func controlID(name string) string {
	return controlIDPrefix + strings.TrimSpace(name)
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps inline emphasis and links; everything else is
// stripped and text is escaped.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "em", "i", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}
