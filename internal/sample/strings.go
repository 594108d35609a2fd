// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sample

import (
	"strings"
	"unicode"
)

// Reverse returns given string with its runes in reverse order.
func Reverse(s string) string {
	rr := []rune(s)
	for i, j := 0, len(rr)-1; i < j; i, j = i+1, j-1 {
		rr[i], rr[j] = rr[j], rr[i]
	}
	return string(rr)
}

// IsPalindrome reports if given string reads the same backwards
// ignoring case, spaces and punctuation.
func IsPalindrome(s string) bool {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
	return normalized == Reverse(normalized)
}
