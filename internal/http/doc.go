// Package http provides the HTTP client used to fetch media files.
//
// Every transfer is a single plain GET whose whole body is read into
// memory. Non-200 responses come back as *StatusError:
//
//	client := http.NewClient(settings.HTTPTimeout(), settings.UserAgent)
//	data, err := client.Get(ctx, mediaURL)
package http
