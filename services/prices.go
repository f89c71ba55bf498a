package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gca01/pm-price-ss/models"
	"github.com/gca01/pm-price-ss/utils"
)

// ErrParse classifies all malformed or mismatched price text. A parse error
// makes the game a skip, never a failure, and never affects other games.
var ErrParse = errors.New("price parse")

// priceTextRegexp matches moneyline button text like "SAC39¢": a 2-3 letter
// team token directly followed by a cents value. Spread buttons carry +/- and
// deliberately do not match.
var priceTextRegexp = regexp.MustCompile(`^([A-Z]{2,3})(\d+)¢$`)

// PriceParser turns raw on-page price text into validated PriceSamples.
type PriceParser struct {
	logger *utils.Logger
}

// NewPriceParser creates a PriceParser with the given logger.
func NewPriceParser(logger *utils.Logger) *PriceParser {
	return &PriceParser{logger: logger}
}

// compact strips all whitespace, including newlines the renderer slips in
// between the token and the price.
func compact(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// looksLikePrice reports whether raw has the moneyline price shape at all.
func looksLikePrice(raw string) bool {
	return priceTextRegexp.MatchString(compact(raw))
}

// parseOne extracts the team token and decimal price from one raw text.
// "IND62¢" → ("IND", 0.62). Cents must be in [0,100].
func (p *PriceParser) parseOne(raw string) (string, float64, error) {
	m := priceTextRegexp.FindStringSubmatch(compact(raw))
	if m == nil {
		return "", 0, fmt.Errorf("%w: text %q does not look like a moneyline price", ErrParse, raw)
	}

	cents, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("%w: cents in %q: %v", ErrParse, raw, err)
	}
	if cents > 100 {
		return "", 0, fmt.Errorf("%w: %d¢ is outside [0,100]", ErrParse, cents)
	}

	return m[1], float64(cents) / 100.0, nil
}

// Sample parses the raw price texts from a game page and pairs them with the
// expected home and away tokens. Texts that do not even look like moneyline
// prices (spreads, totals, stray ¢ labels) are ignored; among the ones that
// do, exactly two must remain and each expected token must resolve to exactly
// one price. Matching is by token identity, not screen position — the two
// buttons may render in either order.
func (p *PriceParser) Sample(rawTexts []string, home, away string) (*models.PriceSample, error) {
	type parsed struct {
		token string
		price float64
	}

	var prices []parsed
	for _, raw := range rawTexts {
		if !looksLikePrice(raw) {
			continue
		}
		token, price, err := p.parseOne(raw)
		if err != nil {
			return nil, err
		}
		prices = append(prices, parsed{token, price})
	}

	if len(prices) != 2 {
		return nil, fmt.Errorf("%w: expected 2 price texts, got %d", ErrParse, len(prices))
	}

	sample := &models.PriceSample{Home: home, Away: away, HomePrice: -1, AwayPrice: -1}
	for _, pr := range prices {
		switch pr.token {
		case home:
			if sample.HomePrice >= 0 {
				return nil, fmt.Errorf("%w: token %s appeared twice", ErrParse, home)
			}
			sample.HomePrice = pr.price
		case away:
			if sample.AwayPrice >= 0 {
				return nil, fmt.Errorf("%w: token %s appeared twice", ErrParse, away)
			}
			sample.AwayPrice = pr.price
		default:
			return nil, fmt.Errorf("%w: token %s matches neither %s nor %s",
				ErrParse, pr.token, home, away)
		}
	}

	p.logger.Debug("[prices] %s=%.2f %s=%.2f", home, sample.HomePrice, away, sample.AwayPrice)
	return sample, nil
}
