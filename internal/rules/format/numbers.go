package format

import (
	"strings"

	"github.com/donaldgifford/cssfmt/internal/config"
)

// lengthUnits are the units for which a zero value may drop its unit.
// Angles, times, frequencies, resolutions and percentages are not
// interchangeable with a bare zero in every context and are kept.
var lengthUnits = map[string]bool{
	"em": true, "ex": true, "ch": true, "rem": true, "cap": true, "ic": true,
	"lh": true, "rlh": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
	"vb": true, "vi": true, "svw": true, "svh": true, "lvw": true, "lvh": true,
	"dvw": true, "dvh": true,
	"cqw": true, "cqh": true, "cqi": true, "cqb": true, "cqmin": true, "cqmax": true,
	"px": true, "cm": true, "mm": true, "q": true, "in": true, "pt": true, "pc": true,
}

// mathFunctions take typed arguments; calc(0px + 1em) and calc(0 + 1em)
// are not equivalent.
var mathFunctions = map[string]bool{
	"calc": true, "min": true, "max": true, "clamp": true,
	"round": true, "mod": true, "rem": true,
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true,
	"atan": true, "atan2": true, "pow": true, "sqrt": true, "hypot": true,
	"log": true, "exp": true, "abs": true, "sign": true,
}

func stripVendor(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	if i := strings.IndexByte(name[1:], '-'); i >= 0 {
		return name[i+2:]
	}
	return name
}

// number is a numeric literal split into its lexical parts.
type number struct {
	sign   string
	whole  string
	frac   string
	hasDot bool
	exp    string
	unit   string
}

// scanNumber reads the numeric literal starting at s[i], including its sign,
// exponent and unit, and returns it with the index just past it.
func scanNumber(s string, i int) (number, int) {
	var num number
	j := i
	if s[j] == '+' || s[j] == '-' {
		num.sign = s[j : j+1]
		j++
	}

	start := j
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	num.whole = s[start:j]

	if j+1 < len(s) && s[j] == '.' && isDigit(s[j+1]) {
		k := j + 1
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		num.frac = s[j+1 : k]
		num.hasDot = true
		j = k
	}

	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			num.exp = s[j:k]
			j = k
		}
	}

	switch {
	case j < len(s) && s[j] == '%':
		num.unit = "%"
		j++
	case j < len(s) && startsIdent(s, j):
		k := identEnd(s, j)
		num.unit = s[j:k]
		j = k
	}
	return num, j
}

func (num number) isZero() bool {
	return strings.Trim(num.whole, "0") == "" && strings.Trim(num.frac, "0") == ""
}

// format renders the literal with the zero rules enabled in cfg applied.
func (num number) format(cfg *config.Config, inMath bool) string {
	frac := num.frac
	if num.hasDot && cfg.TrimTrailingZeros {
		frac = strings.TrimRight(frac, "0")
	}

	whole := num.whole
	if frac != "" && strings.Trim(whole, "0") == "" && cfg.TrimLeadingZero {
		whole = ""
	}
	if frac == "" && whole == "" {
		whole = "0"
	}

	unit := num.unit
	if num.isZero() && num.exp == "" && cfg.ZeroLengthNoUnit && !inMath &&
		lengthUnits[strings.ToLower(unit)] {
		unit = ""
	}

	var b strings.Builder
	b.WriteString(num.sign)
	b.WriteString(whole)
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	b.WriteString(num.exp)
	b.WriteString(unit)
	return b.String()
}

// hexColor recases the digits of a hex colour and shortens six and eight
// digit forms whose pairs repeat.
func hexColor(digits string, cfg *config.Config) string {
	if cfg.ColorCase == config.ColorUpper {
		digits = strings.ToUpper(digits)
	} else {
		digits = strings.ToLower(digits)
	}

	if !cfg.ColorShorthand || (len(digits) != 6 && len(digits) != 8) {
		return digits
	}
	short := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		if digits[i] != digits[i+1] {
			return digits
		}
		short = append(short, digits[i])
	}
	return string(short)
}
