// Package model defines the core data structures used throughout snapstash.
//
// # Record
//
// Record is one entry of a memories export. Its stored fields come straight
// from the export; everything else is derived on demand:
//
//	r.Kind             // KindImage or KindVideo
//	r.EffectiveURL()   // secondary link if valid, else primary link
//	r.YearKey()        // "2024"
//	r.MonthKey()       // "March"
//	r.TargetFilename() // "2024-03-05_10-15-30.jpg"
//
// A malformed timestamp never rejects a record. It resolves to the zero
// time, which groups under year "0001" and sorts after every real date.
//
// # Grouping
//
// Group builds the year → month hierarchy used for navigation:
//
//	for _, y := range model.Group(records) {
//	    for _, m := range y.Months {
//	        fmt.Println(y.Year, m.Month, m.Count())
//	    }
//	}
//
// The hierarchy is recomputed from scratch whenever the record set changes.
package model
