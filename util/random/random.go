// Package random provides random strings for secrets and form tokens.
package random

import (
	"crypto/rand"
	"math/big"
)

var allSeq [62]rune

func init() {
	i := 0
	for r := '0'; r <= '9'; r++ {
		allSeq[i] = r
		i++
	}
	for r := 'a'; r <= 'z'; r++ {
		allSeq[i] = r
		i++
	}
	for r := 'A'; r <= 'Z'; r++ {
		allSeq[i] = r
		i++
	}
}

// Seq generates a random alphanumeric string of length n.
func Seq(n int) string {
	runes := make([]rune, n)
	max := big.NewInt(int64(len(allSeq)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		runes[i] = allSeq[idx.Int64()]
	}
	return string(runes)
}
