package validation

import "strings"

// StripCPF removes any formatting characters from a CPF, keeping digits only
func StripCPF(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF checks a Brazilian CPF: exactly 11 digits, not an all-equal
// sequence, and both check digits consistent with the modulo-11 weighted
// sums over the first 9 and 10 positions. Remainders 10 and 11 map to 0.
func ValidateCPF(cpf string) bool {
	clean := StripCPF(cpf)

	if len(clean) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if clean[i] != clean[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digits := make([]int, 11)
	for i := 0; i < 11; i++ {
		digits[i] = int(clean[i] - '0')
	}

	sum := 0
	for i := 1; i <= 9; i++ {
		sum += digits[i-1] * (11 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	if remainder != digits[9] {
		return false
	}

	sum = 0
	for i := 1; i <= 10; i++ {
		sum += digits[i-1] * (12 - i)
	}
	remainder = (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	return remainder == digits[10]
}
