package utils

import (
	"strconv"
	"strings"
)

// FormatVND renders an amount with dot thousands separators, e.g. 1.250.000 ₫
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " ₫"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE operand matching term literally anywhere in
// the column. Use it with "LIKE ? ESCAPE '\'".
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
