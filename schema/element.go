package schema

import (
	"sort"
	"strconv"
	"strings"
)

// isotopes holds the NMR active isotope usually observed for an
// element.
var isotopes = map[string]int{
	"H": 1, "C": 13, "N": 15, "O": 17, "P": 31, "S": 33, "F": 19,
	"CD": 113, "CA": 43, "SE": 77, "ZN": 67, "MG": 25, "NA": 23, "K": 39,
	"LI": 7, "CL": 35, "XE": 129, "B": 11, "SI": 29, "PT": 195, "HG": 199,
	"AG": 109, "V": 51, "AL": 27, "CS": 133, "RB": 87, "SN": 119, "PB": 207,
}

// Elements lists the element symbols an atom type may take.
var Elements = func() []string {
	els := make([]string, 0, len(isotopes))
	for e := range isotopes {
		els = append(els, e)
	}
	sort.Strings(els)
	return els
}()

// IsotopeNumbers lists the accepted isotope numbers. 2 and 3 cover
// deuterium and tritium.
var IsotopeNumbers = []string{
	"1", "2", "3", "7", "11", "13", "15", "17", "19", "23", "25", "27", "29",
	"31", "33", "35", "39", "43", "51", "67", "77", "87", "109", "113",
	"119", "129", "133", "195", "199", "207",
}

// IsotopeOf returns the default isotope number for an element.
func IsotopeOf(element string) (int, bool) {
	i, ok := isotopes[strings.ToUpper(element)]
	return i, ok
}

// twoLetter elements are checked before the one letter guess so that
// atom ZN of residue ZN is zinc and not nitrogen.
var twoLetter = []string{"CD", "SE", "ZN", "MG", "NA", "LI", "CL", "XE", "CA", "HG"}

// ElementOf guesses the element of an atom name the way both formats
// intend it: the first letter, with pseudo atoms M and Q meaning
// hydrogen. The residue name tells an ion (CA of residue CA) from
// C-alpha.
func ElementOf(atom, comp string) string {
	atom = strings.ToUpper(atom)
	if atom == "" {
		return ""
	}
	comp = strings.ToUpper(comp)
	for _, e := range twoLetter {
		if comp == e && strings.HasPrefix(atom, e) {
			return e
		}
	}
	switch c := atom[0]; c {
	case 'M', 'Q':
		return "H"
	case '%', '*', '#':
		return ""
	default:
		return string(c)
	}
}

// ElementFromAxis reads an axis code such as "1H", "15N" or "H" and
// returns the element and isotope. The isotope is the default one when
// the code does not give it.
func ElementFromAxis(code string) (string, int, bool) {
	i := 0
	for i < len(code) && code[i] >= '0' && code[i] <= '9' {
		i++
	}
	rest := strings.ToUpper(code[i:])
	if rest == "" {
		return "", 0, false
	}
	el := rest[:1]
	for _, e := range twoLetter {
		if rest == e {
			el = e
		}
	}
	if i == 0 {
		iso, ok := IsotopeOf(el)
		return el, iso, ok
	}
	iso, err := strconv.Atoi(code[:i])
	if err != nil {
		return "", 0, false
	}
	return el, iso, true
}

// LetterToDigit maps a letter sometimes used in place of a chain
// number back to a digit string, A is 1. It is the derivation behind
// a default taken from the item itself.
func LetterToDigit(s string) (string, bool) {
	if len(s) != 1 {
		return "", false
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return strconv.Itoa(int(c-'A') + 1), true
	case c >= 'a' && c <= 'z':
		return strconv.Itoa(int(c-'a') + 1), true
	}
	return "", false
}
