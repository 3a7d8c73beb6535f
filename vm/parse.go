package vm

import (
	"strconv"
	"strings"

	"github.com/wippyai/intcode/errors"
)

// Parse reads a comma-separated list of integers. Whitespace around tokens
// is ignored and a single empty trailing token (trailing comma or newline)
// is accepted.
func Parse(src string) ([]int64, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New(errors.PhaseParse, errors.KindParsing).
			Detail("empty program").
			Build()
	}

	tokens := strings.Split(src, ",")
	if strings.TrimSpace(tokens[len(tokens)-1]) == "" {
		tokens = tokens[:len(tokens)-1]
	}

	program := make([]int64, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, errors.Parsing(i, tok, err)
		}
		program[i] = v
	}
	return program, nil
}

// Format renders cells in the comma-separated program format.
func Format(cells []int64) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(c, 10))
	}
	return b.String()
}
