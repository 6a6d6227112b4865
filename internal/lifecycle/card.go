package lifecycle

import (
	"strings"

	apperrors "evento/internal/errors"
	"evento/internal/models"
)

const minCardDigits = 13

// CardInfo is the masked card metadata kept on a payment record.
type CardInfo struct {
	LastDigits string
	Brand      string
}

// IsCardMethod reports whether the payment method requires card details.
func IsCardMethod(method string) bool {
	return method == models.MethodCreditCard || method == models.MethodDebitCard
}

// ParseCard validates a card number and derives the masked metadata.
// Spaces are tolerated; anything shorter than 13 digits or containing a
// non-digit is rejected. The brand comes from the leading digit.
func ParseCard(number string) (CardInfo, error) {
	number = strings.ReplaceAll(number, " ", "")
	if len(number) < minCardDigits {
		return CardInfo{}, apperrors.ErrInvalidCard
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return CardInfo{}, apperrors.ErrInvalidCard
		}
	}

	var brand string
	switch number[0] {
	case '4':
		brand = "Visa"
	case '5':
		brand = "MasterCard"
	case '3':
		brand = "American Express"
	default:
		brand = "Other"
	}

	return CardInfo{
		LastDigits: number[len(number)-4:],
		Brand:      brand,
	}, nil
}
