// Package mnemonic generates and normalizes registration pass phrases.
//
// A phrase is a sequence of common English words drawn from an embedded
// wordlist with crypto-grade randomness. Phrases travel through chat clients
// that love to re-case, re-space and smart-quote text, so comparison always
// goes through Normalize on both sides.
package mnemonic

import (
	"crypto/rand"
	_ "embed"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	perr "workclock/internal/platform/errors"
)

// PhraseWords is the number of words in a generated phrase
const PhraseWords = 24

//go:embed words.txt
var rawWords string

var words = strings.Fields(rawWords)

// Generate returns a new normalized phrase of PhraseWords random words
func Generate() (string, error) {
	n := big.NewInt(int64(len(words)))
	picks := make([]string, PhraseWords)
	for i := range picks {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "mnemonic: read randomness")
		}
		picks[i] = words[idx.Int64()]
	}
	return strings.Join(picks, " "), nil
}

// Normalize canonicalizes a phrase for storage and comparison: Unicode NFKC,
// lower case, and runs of whitespace collapsed to single spaces
func Normalize(phrase string) string {
	s := norm.NFKC.String(phrase)
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
