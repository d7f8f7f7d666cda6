package main

import "strings"

// parseCommaList splits a comma-separated flag value, trimming whitespace
// and dropping empty items.
func parseCommaList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
