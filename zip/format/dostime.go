package format

import "time"

// TimeToDOS packs t into the 16-bit MS-DOS date and time fields used by the
// header records. The DOS epoch is 1980; earlier times clamp to it. Seconds
// have two-second resolution.
func TimeToDOS(t time.Time) (date, tod uint16) {
	if t.Year() < 1980 {
		return 0x21, 0 // 1980-01-01 00:00:00
	}
	if t.Year() > 2107 {
		t = time.Date(2107, 12, 31, 23, 59, 58, 0, t.Location())
	}

	date = uint16(t.Day()) | uint16(t.Month())<<5 | uint16(t.Year()-1980)<<9
	tod = uint16(t.Second()/2) | uint16(t.Minute())<<5 | uint16(t.Hour())<<11
	return date, tod
}

// DOSToTime is the inverse of TimeToDOS, for consumers that read the packed
// fields back out of a header.
func DOSToTime(date, tod uint16) time.Time {
	return time.Date(
		int(date>>9)+1980,
		time.Month(date>>5&0x0f),
		int(date&0x1f),
		int(tod>>11),
		int(tod>>5&0x3f),
		int(tod&0x1f)*2,
		0,
		time.UTC,
	)
}
