package payment

import "strings"

type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandUnknown    Brand = "unknown"
)

// ValidateCard checks length (13 to 19 digits, spaces ignored) and the Luhn
// checksum. The brand is reported whenever the length is acceptable.
func ValidateCard(number string) (bool, Brand) {
	cleaned := stripSpaces(number)
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false, ""
	}

	return luhn(cleaned), brandOf(cleaned)
}

func luhn(digits string) bool {
	sum := 0
	double := false

	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}

		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

func brandOf(digits string) Brand {
	switch digits[0] {
	case '4':
		return BrandVisa
	case '5', '2':
		return BrandMastercard
	case '3':
		return BrandAmex
	default:
		return BrandUnknown
	}
}

// FormatCardNumber groups the digits in blocks of four.
func FormatCardNumber(value string) string {
	cleaned := stripSpaces(value)

	var b strings.Builder
	for i := 0; i < len(cleaned); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cleaned[i:min(i+4, len(cleaned))])
	}
	return b.String()
}

// FormatExpiry keeps the digits of value and renders them as MM/YY.
func FormatExpiry(value string) string {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if len(cleaned) <= 2 {
		return cleaned
	}
	return cleaned[:2] + "/" + cleaned[2:min(4, len(cleaned))]
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
