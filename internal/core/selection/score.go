package selection

import (
	"regexp"
	"sync"

	"instrshot.dev/cli/internal/core/plugin"
)

// patternCache holds compiled identity patterns. A pattern that does not
// compile is cached as nil and never matches.
type patternCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{compiled: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) get(pattern string) *regexp.Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	c.compiled[pattern] = re
	return re
}

// score counts how many of the plugin's patterns match somewhere in identity
func (c *patternCache) score(identity string, p plugin.Plugin) int {
	count := 0
	for _, pattern := range p.Patterns() {
		if re := c.get(pattern); re != nil && re.MatchString(identity) {
			count++
		}
	}
	return count
}

var defaultCache = newPatternCache()

// Score returns the number of the plugin's identity patterns that match the
// identity string. Patterns are unanchored and case sensitive.
func Score(identity string, p plugin.Plugin) int {
	return defaultCache.score(identity, p)
}
