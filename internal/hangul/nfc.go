package hangul

import "golang.org/x/text/unicode/norm"

// ComposeNFC composes conjoining jamo sequences (U+1100..U+11FF) into
// precomposed syllables, e.g. "사랑" -> "사랑".
// Input without conjoining jamo is returned as-is without allocation.
func ComposeNFC(s string) string {
	// Fast path: scan for conjoining jamo or combining marks.
	needs := false
	for _, r := range s {
		if (r >= 0x1100 && r <= 0x11FF) || (r >= 0x0300 && r <= 0x036F) {
			needs = true
			break
		}
	}
	if !needs {
		return s
	}
	return norm.NFC.String(s)
}
