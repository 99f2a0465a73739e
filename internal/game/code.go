package game

import (
	"math/rand/v2"
	"strings"
)

// CodeAlphabet omits I, L and O, which read like 1 and 0.
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ"

// CodeLength is the number of letters in a room code.
const CodeLength = 4

// CodeGenerator produces candidate room codes. Collisions are handled by the store.
type CodeGenerator interface {
	Generate() string
}

// CodeGeneratorFunc adapts a function to CodeGenerator.
type CodeGeneratorFunc func() string

func (f CodeGeneratorFunc) Generate() string { return f() }

// RandomCodes draws CodeLength letters uniformly from CodeAlphabet.
type RandomCodes struct{}

func (RandomCodes) Generate() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(CodeAlphabet[rand.IntN(len(CodeAlphabet))])
	}
	return b.String()
}

// NormalizeCode uppercases and trims a user-typed code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
