// Package citation finds citation markers in agent text, coerces the
// supported ground payload shapes, and builds statement-ground links.
//
// The marker syntax is [@<key>] where key matches ^[A-Za-z][A-Za-z0-9_-]*$.
// Invalid or empty keys are skipped without aborting the scan.
package citation

// ExtractKeys scans text for citation markers and returns the distinct keys
// in first-occurrence order. The scan is a single linear pass.
func ExtractKeys(text string) []string {
	if text == "" {
		return nil
	}
	var keys []string
	seen := make(map[string]bool)

	for i := 0; i+2 < len(text); i++ {
		if text[i] != '[' || text[i+1] != '@' {
			continue
		}
		start := i + 2
		end := start
		for end < len(text) && text[end] != ']' {
			end++
		}
		if end < len(text) && end > start {
			candidate := text[start:end]
			if validKey(candidate) && !seen[candidate] {
				seen[candidate] = true
				keys = append(keys, candidate)
			}
		}
		i = end
	}

	return keys
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	first := key[0]
	if !isASCIILetter(first) {
		return false
	}
	for i := 1; i < len(key); i++ {
		c := key[i]
		if !isASCIILetter(c) && !isASCIIDigit(c) && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
