// Package snapchat parses Snapchat memories exports into records.
//
// An export is a single JSON object with a "Saved Media" array:
//
//	{
//	  "Saved Media": [
//	    {
//	      "Date": "2024-03-05 10:15:30 UTC",
//	      "Media Type": "Video",
//	      "Download Link": "https://app.snapchat.com/dmd/memories?uid=...",
//	      "Media Download Url": "https://cf-st.sc-cdn.net/..."
//	    }
//	  ]
//	}
//
// The wire structs in the dto subpackage carry the export's key names and
// convert into model.Record. "Media Download Url" and "ID" are optional.
//
//	records, err := snapchat.NewParser().ParseExport(data)
//	if err != nil {
//	    var perr *snapchat.ParseError
//	    errors.As(err, &perr) // always true for content errors
//	}
package snapchat
