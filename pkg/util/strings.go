package util

import "strings"

// RemoveDuplicateStrings trims every entry and drops blanks, duplicates and anything in ignoreList
func RemoveDuplicateStrings(strs []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strs {
		item = strings.TrimSpace(item)
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}
