// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders rows by a comma separated list of keys. A leading -
// sorts descending and a leading ! compares case sensitively. Numbers compare
// numerically, everything else as strings.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}

	type key struct {
		name          string
		ascending     bool
		caseSensitive bool
	}
	var keys []key
	for _, field := range strings.Split(spec, ",") {
		k := key{ascending: true}
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			k.ascending = false
		}
		if strings.HasPrefix(field, "!") {
			field = field[1:]
			k.caseSensitive = true
		}
		k.name = strings.TrimSpace(field)
		keys = append(keys, k)
	}

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, k := range keys {
			oneValue := resultSet[one][k.name]
			twoValue := resultSet[two][k.name]

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if oneNum != twoNum {
					return (oneNum < twoNum) == k.ascending
				}
				continue
			}

			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !k.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}
			if oneStr != twoStr {
				return (oneStr < twoStr) == k.ascending
			}
		}
		return false
	})
}
