package ioingest

import (
	"fmt"
	"strings"
)

// nameKeys are property keys checked for a feature name, in order of
// priority.
var nameKeys = []string{
	"name", "NAME", "Name",
	"DISTRICT", "district", "District",
	"PROVINCE", "province", "REGION", "region",
	"title", "TITLE", "label", "LABEL",
}

var descriptionKeys = []string{
	"description", "DESCRIPTION", "Description", "desc",
}

// resolveName returns the first non-empty value of name keys or
// "Feature N" for the 1-based ordinal.
func resolveName(props map[string]string, ordinal int) string {
	if s := firstValue(props, nameKeys); s != "" {
		return s
	}
	return fmt.Sprintf("Feature %d", ordinal)
}

func resolveDescription(props map[string]string) string {
	return firstValue(props, descriptionKeys)
}

func firstValue(props map[string]string, keys []string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(props[k]); s != "" {
			return s
		}
	}
	return ""
}

// stringify converts GeoJSON property values to strings.
// Nested objects and nulls are dropped.
func stringify(props map[string]any) map[string]string {
	res := make(map[string]string, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case nil, map[string]any, []any:
			continue
		case string:
			res[k] = strings.TrimSpace(val)
		default:
			res[k] = fmt.Sprint(val)
		}
	}
	return res
}
