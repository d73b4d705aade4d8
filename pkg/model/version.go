package model

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
)

// CompareVersions compares two version strings and returns -1, 0 or 1.
//
// Versions are parsed leniently, so "1", "1.0" and "1.0.0" are equal and
// "1.0-SNAPSHOT" sorts before "1.0". Versions that are not semantic versions
// are compared segment by segment, numerically where both segments are numbers.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareSegments(a, b)
}

func compareSegments(a, b string) int {
	split := func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == '.' || r == '-' || r == '_'
		})
	}

	sa, sb := split(a), split(b)
	for i := 0; i < len(sa) || i < len(sb); i++ {
		var x, y string
		if i < len(sa) {
			x = sa[i]
		}
		if i < len(sb) {
			y = sb[i]
		}

		nx, errX := strconv.Atoi(x)
		ny, errY := strconv.Atoi(y)
		switch {
		case x == y:
			continue
		case errX == nil && errY == nil:
			if nx < ny {
				return -1
			}
			if nx > ny {
				return 1
			}
		case x == "":
			return -1
		case y == "":
			return 1
		default:
			return strings.Compare(x, y)
		}
	}
	return 0
}
