package validator

import (
	"math/big"
	"regexp"
	"strings"
)

// MoneyScale is the number of subunits in one currency unit.
const MoneyScale = 1000

var floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,4})?`)

// ParseMoney reads the leading decimal number of s and converts it to
// subunits, rounding half away from zero past the third decimal.
// "12.3456" is 12346; "1.2kg" is 1200.
func ParseMoney(s string) (int64, bool) {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return 0, false
	}
	r, ok := new(big.Rat).SetString(m)
	if !ok {
		return 0, false
	}
	r.Mul(r, big.NewRat(MoneyScale, 1))

	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	// Round half away from zero: |rem|*2 >= den bumps the magnitude.
	if rem.Sign() != 0 && new(big.Int).Mul(new(big.Int).Abs(rem), big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(int64(num.Sign())))
	}
	if !q.IsInt64() {
		return 0, false
	}
	return q.Int64(), true
}

// FormatMoney renders subunits as a plain amount with two decimals.
func FormatMoney(subunits int64) string {
	return new(big.Rat).SetFrac64(subunits, MoneyScale).FloatString(2)
}
