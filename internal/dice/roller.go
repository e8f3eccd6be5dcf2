package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidExpression is returned for expressions that do not parse or fall
// outside the supported limits. Callers treat it as a user error.
var ErrInvalidExpression = errors.New("invalid dice expression")

// Pattern: XdY, XdY+Z or XdY-Z
var pattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

type RollResult struct {
	Expression string `json:"expression"`
	Total      int    `json:"total"`
	Rolls      []int  `json:"rolls"`
	Breakdown  string `json:"breakdown"`
}

// Roll evaluates a standard dice expression like "1d20+5" or "2d6".
// It is a pure function apart from the randomness itself.
func Roll(expression string) (*RollResult, error) {
	expression = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(expression)), " ", "")

	match := pattern.FindStringSubmatch(expression)
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExpression, expression)
	}

	numDice, _ := strconv.Atoi(match[1])
	dieSize, _ := strconv.Atoi(match[2])
	modifier := 0
	if match[3] != "" {
		modifier, _ = strconv.Atoi(match[3])
	}

	if numDice < 1 || numDice > 100 {
		return nil, fmt.Errorf("%w: number of dice must be between 1 and 100", ErrInvalidExpression)
	}
	if dieSize < 2 || dieSize > 1000 {
		return nil, fmt.Errorf("%w: die size must be between 2 and 1000", ErrInvalidExpression)
	}

	rolls := make([]int, numDice)
	diceTotal := 0
	for i := range rolls {
		rolls[i] = rand.IntN(dieSize) + 1
		diceTotal += rolls[i]
	}
	total := diceTotal + modifier

	return &RollResult{
		Expression: expression,
		Total:      total,
		Rolls:      rolls,
		Breakdown:  breakdown(rolls, diceTotal, modifier, total),
	}, nil
}

// RollMultiple evaluates several expressions, failing on the first invalid one.
func RollMultiple(expressions []string) ([]*RollResult, error) {
	results := make([]*RollResult, 0, len(expressions))
	for _, expr := range expressions {
		result, err := Roll(expr)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func breakdown(rolls []int, diceTotal, modifier, total int) string {
	var b strings.Builder
	if len(rolls) == 1 {
		fmt.Fprintf(&b, "[%d]", rolls[0])
	} else {
		parts := make([]string, len(rolls))
		for i, r := range rolls {
			parts[i] = strconv.Itoa(r)
		}
		fmt.Fprintf(&b, "[%s] = %d", strings.Join(parts, ", "), diceTotal)
	}
	if modifier != 0 {
		fmt.Fprintf(&b, " %+d = %d", modifier, total)
	}
	return b.String()
}
