package engine

// MinimumWorkingAge is the legal floor below which no band exists.
// Workers younger than this still produce a reportable rule failure,
// never a crashed check.
const MinimumWorkingAge = 12

// =============================================================================
// AGE ARITHMETIC
// =============================================================================

// AgeAsOf returns the worker's age in whole years on the given date.
// The birthday counts as occurred once the birth month/day has been
// reached in the target year. A Feb 29 birthday is treated as not yet
// occurred until Mar 1 in non-leap years.
func AgeAsOf(dateOfBirth, on Date) int {
	age := on.Year - dateOfBirth.Year
	if on.Month < dateOfBirth.Month ||
		(on.Month == dateOfBirth.Month && on.Day < dateOfBirth.Day) {
		age--
	}
	return age
}

// AgeBandFor classifies an age into its regulatory band. Ages below the
// legal working floor return AgeBelowMinimumError alongside BandUnderMin
// so callers can still build a context and report the violation.
func AgeBandFor(age int) (AgeBand, error) {
	switch {
	case age < MinimumWorkingAge:
		return BandUnderMin, &AgeBelowMinimumError{Age: age, Minimum: MinimumWorkingAge}
	case age <= 13:
		return Band1213, nil
	case age <= 15:
		return Band1415, nil
	case age <= 17:
		return Band1617, nil
	default:
		return BandAdult, nil
	}
}

// =============================================================================
// BIRTHDAY DETECTION
// =============================================================================

// Birthday reports whether a worker's birthday falls inside a given week.
type Birthday struct {
	Found  bool
	Date   Date
	NewAge int
}

// BirthdayInWeek scans the 7 dates of the week starting at weekStart for
// a month/day match against the date of birth. A Feb 29 birthday only
// matches in weeks that actually contain a Feb 29.
func BirthdayInWeek(dateOfBirth, weekStart Date) Birthday {
	for i := 0; i < 7; i++ {
		d := weekStart.AddDays(i)
		if d.Month == dateOfBirth.Month && d.Day == dateOfBirth.Day {
			return Birthday{Found: true, Date: d, NewAge: d.Year - dateOfBirth.Year}
		}
	}
	return Birthday{}
}
