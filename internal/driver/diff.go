package driver

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders what a rewrite would change, for debug output.
func unifiedDiff(path string, before, after []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
