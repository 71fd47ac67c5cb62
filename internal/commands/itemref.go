package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ItemRef represents a parsed item reference.
type ItemRef struct {
	Letter    rune // 0 if no letter, 'a'-'z' otherwise
	Num       int  // 1-based item number
	HasLetter bool // true if a list letter was provided
}

// ErrItemRefRequired indicates no item reference was provided.
var ErrItemRefRequired = errors.New("item reference required")

// ParseItemRef parses an item reference from args.
//
// Parsing rules:
// 1. If first arg is all digits → first-list reference
// 2. If first arg is <letter><digits> (e.g., a1, b12) → combined reference
// 3. If first arg is single letter and second arg is all digits → separated reference (a 1)
// 4. If first arg is single letter with no second arg → error: item reference required
// 5. Otherwise → error: invalid item reference: <ref>
func ParseItemRef(args []string) (ItemRef, error) {
	if len(args) == 0 {
		return ItemRef{}, ErrItemRefRequired
	}

	firstArg := args[0]

	if isAllDigits(firstArg) {
		num, err := strconv.Atoi(firstArg)
		if err != nil {
			return ItemRef{}, fmt.Errorf("invalid item reference: %s", firstArg)
		}
		return ItemRef{Num: num}, nil
	}

	if len(firstArg) > 0 && isListLetter(rune(firstArg[0])) {
		letter := rune(firstArg[0])

		if len(firstArg) > 1 && isAllDigits(firstArg[1:]) {
			num, err := strconv.Atoi(firstArg[1:])
			if err != nil {
				return ItemRef{}, fmt.Errorf("invalid item reference: %s", firstArg)
			}
			return ItemRef{Letter: letter, Num: num, HasLetter: true}, nil
		}

		if len(firstArg) == 1 {
			if len(args) < 2 {
				return ItemRef{}, ErrItemRefRequired
			}
			secondArg := args[1]
			if isAllDigits(secondArg) {
				num, err := strconv.Atoi(secondArg)
				if err != nil {
					return ItemRef{}, fmt.Errorf("invalid item reference: %s", secondArg)
				}
				return ItemRef{Letter: letter, Num: num, HasLetter: true}, nil
			}
			return ItemRef{}, fmt.Errorf("invalid item reference: %s", firstArg)
		}
	}

	return ItemRef{}, fmt.Errorf("invalid item reference: %s", firstArg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isListLetter returns true if r is a lowercase letter a-z.
func isListLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
