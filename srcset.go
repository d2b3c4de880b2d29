package cdnify

import "strings"

// candidates is a parsed srcset attribute
type candidates []candidate

// candidate is one comma-separated entry of a srcset: a URL followed by any
// descriptors. An empty entry has no fields at all.
type candidate []string

// rewriteSrcSet resolves every candidate URL in val. Candidates that don't
// resolve keep their original URL. If nothing resolved, n is 0 and val should
// be left as it was.
func rewriteSrcSet(val string, resolve func(string) (string, bool)) (out string, n int) {
	cands := parseSrcSet(val)

	for _, cand := range cands {
		if len(cand) == 0 {
			continue
		}

		u, ok := resolve(cand[0])
		if ok {
			cand[0] = u
			n++
		}
	}

	if n == 0 {
		return val, 0
	}

	return cands.String(), n
}

// parseSrcSet splits s into entries on ",", then each entry into fields on
// whitespace. Every entry is kept, empty ones included, so that the number of
// entries never changes.
func parseSrcSet(s string) candidates {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	entries := strings.Split(s, ",")
	cands := make(candidates, len(entries))

	for i, entry := range entries {
		cands[i] = strings.Fields(entry)
	}

	return cands
}

func (cands candidates) String() string {
	entries := make([]string, len(cands))
	for i, cand := range cands {
		entries[i] = strings.Join(cand, " ")
	}

	return strings.Join(entries, ", ")
}
