// Package numerology derives a person's life path number from their birth
// date. The computation is pure: same date in, same number out, no locale or
// timezone dependence. Only the calendar digits matter.
package numerology

import (
	"time"

	dErrors "lifepath/pkg/domain-errors"
)

// masterNumbers halt digit-sum reduction. A sum that lands on one of these,
// at any point in the reduction chain, is returned as-is.
var masterNumbers = map[int]bool{11: true, 22: true, 28: true, 33: true}

// DateLayout is the wire format for calendar dates throughout the registry.
const DateLayout = "2006-01-02"

// Number computes the life path number for a birth date.
//
// The date is decomposed into its literal decimal digits (two for the month,
// two for the day, four for the year), summed, and reduced to a digital root.
// Master numbers are checked before and after every reduction step: a sum of
// 29 reduces to 11 and stops there, it does not continue to 2.
//
// The result is always in {1..9, 11, 22, 28, 33}.
func Number(birthDate time.Time) int {
	sum := digitSum(int(birthDate.Month())) +
		digitSum(birthDate.Day()) +
		digitSum(birthDate.Year())

	for sum > 9 && !masterNumbers[sum] {
		sum = digitSum(sum)
	}
	return sum
}

// ParseDate parses an ISO calendar date, rejecting anything that is not a
// valid Gregorian date in 2006-01-02 form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeInvalidDate, "invalid calendar date: "+s)
	}
	return t, nil
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
