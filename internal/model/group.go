package model

import (
	"cmp"
	"slices"
)

// YearGroup is one period of the navigation hierarchy.
type YearGroup struct {
	// Year is the 4-digit year key shared by every record in the group.
	Year string

	// Months is ordered newest first. Never empty.
	Months []MonthGroup
}

// MonthGroup is one sub-period of a YearGroup.
type MonthGroup struct {
	// Month is the English month name shared by every record in the group.
	Month string

	// Records keeps the relative input order. Never empty.
	Records []*Record
}

// Count returns the number of records in the year.
func (y YearGroup) Count() int {
	n := 0
	for _, m := range y.Months {
		n += len(m.Records)
	}
	return n
}

// Count returns the number of records in the month.
func (m MonthGroup) Count() int {
	return len(m.Records)
}

// Group partitions records into years and months for navigation.
//
// Years are ordered by descending key, compared as strings. Months inside a
// year are ordered by the descending raw TimestampText of their first
// record; for the fixed zero-padded timestamp layout this matches
// chronological order. Records keep their input order inside a month.
//
// Every input record appears in exactly one month, no group is empty and
// the result depends only on the input order, so repeated calls on the
// same slice return equal hierarchies.
func Group(records []*Record) []YearGroup {
	type monthBucket struct {
		month   string
		records []*Record
	}
	type yearBucket struct {
		year   string
		months []*monthBucket
		index  map[string]*monthBucket
	}

	var years []*yearBucket
	byYear := make(map[string]*yearBucket)

	for _, r := range records {
		yk := r.YearKey()
		yb, ok := byYear[yk]
		if !ok {
			yb = &yearBucket{year: yk, index: make(map[string]*monthBucket)}
			byYear[yk] = yb
			years = append(years, yb)
		}

		mk := r.MonthKey()
		mb, ok := yb.index[mk]
		if !ok {
			mb = &monthBucket{month: mk}
			yb.index[mk] = mb
			yb.months = append(yb.months, mb)
		}
		mb.records = append(mb.records, r)
	}

	slices.SortStableFunc(years, func(a, b *yearBucket) int {
		return cmp.Compare(b.year, a.year)
	})

	groups := make([]YearGroup, 0, len(years))
	for _, yb := range years {
		slices.SortStableFunc(yb.months, func(a, b *monthBucket) int {
			return cmp.Compare(b.records[0].TimestampText, a.records[0].TimestampText)
		})

		months := make([]MonthGroup, 0, len(yb.months))
		for _, mb := range yb.months {
			months = append(months, MonthGroup{Month: mb.month, Records: mb.records})
		}
		groups = append(groups, YearGroup{Year: yb.year, Months: months})
	}

	return groups
}

// Flatten returns every record of the hierarchy in display order.
func Flatten(years []YearGroup) []*Record {
	var out []*Record
	for _, y := range years {
		for _, m := range y.Months {
			out = append(out, m.Records...)
		}
	}
	return out
}
