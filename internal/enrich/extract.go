package enrich

import (
	"strings"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
)

// HandleSeparator splits a NAME value such as "Channel @handle".
const HandleSeparator = "@"

// ChannelIDFromName returns the text after the last separator in name, or the
// whole value when there is none. Blank names have no identifier.
func ChannelIDFromName(name string) (string, bool) {
	if models.IsBlank(name) {
		return "", false
	}
	if i := strings.LastIndex(name, HandleSeparator); i >= 0 {
		return name[i+len(HandleSeparator):], true
	}
	return name, true
}

// ExtractChannelIDs maps every name to its identifier and drops duplicates,
// keeping first-seen order.
func ExtractChannelIDs(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := ChannelIDFromName(name)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
