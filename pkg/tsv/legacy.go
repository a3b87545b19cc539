package tsv

import (
	"strings"

	"github.com/agentstation/taxonomy-import/pkg/errors"
)

// Legacy URL path segments whose node id lives in the query string.
var legacyPrefixes = map[string]bool{
	"verktoy":   true,
	"naturbruk": true,
}

// LegacyNodeID extracts the node id from a legacy system URL.
//
//	https://ndla.no/nb/node/138016?fag=54  -> "138016"
//	https://ndla.no/verktoy?fysikk          -> "verktoy:fysikk"
func LegacyNodeID(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", nil
	}

	segment := raw[strings.LastIndex(raw, "/")+1:]
	token, query, _ := strings.Cut(segment, "?")

	if legacyPrefixes[token] {
		param, _, _ := strings.Cut(query, "&")
		name, _, _ := strings.Cut(param, "=")
		if name == "" {
			return "", errors.NewValidationError("legacy link", raw,
				"node id "+token+" has no query parameter")
		}
		return token + ":" + name, nil
	}

	if !numeric(token) {
		return "", errors.NewValidationError("legacy link", raw,
			"node id "+token+" is not a number")
	}
	return token, nil
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
