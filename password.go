package main

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const minPasswordLength = 8

// maxPasswordBytes is bcrypt's input limit; longer passwords cannot be hashed.
const maxPasswordBytes = 72

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "trustno1": {},
	"superman": {}, "abc12345": {}, "letmein1": {}, "passw0rd": {}, "11111111": {},
	"00000000": {}, "starwars": {}, "whatever": {}, "dragon123": {}, "monkey123": {},
}

var attributeSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// passwordProblems checks the strength policy and returns one message per
// failed rule, in a stable order.
func passwordProblems(password, username, email string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, "This password is too long. It must contain at most 72 bytes.")
	} else if tooSimilar(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	} else if tooSimilar(password, email) {
		problems = append(problems, "The password is too similar to the email address.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.Trim(password, "0123456789") == "" {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

// maxSimilarity is the ratio at or above which a password counts as a
// variation of a user attribute.
const maxSimilarity = 0.7

// tooSimilar compares the password against the attribute value and each of
// its alphanumeric parts.
func tooSimilar(password, attr string) bool {
	pw := strings.ToLower(password)
	attr = strings.ToLower(strings.TrimSpace(attr))
	if pw == "" || attr == "" {
		return false
	}
	candidates := append([]string{attr}, attributeSplit.Split(attr, -1)...)
	for _, part := range candidates {
		if part == "" {
			continue
		}
		if similarity(pw, part) >= maxSimilarity {
			return true
		}
	}
	return false
}

// similarity is 2*LCS/(len(a)+len(b)) over runes, where LCS is the longest
// common subsequence.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
