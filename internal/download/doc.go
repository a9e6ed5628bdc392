// Package download fetches memory records into a directory.
//
// # Fetcher
//
// The Fetcher resolves one record:
//
//  1. Compute the target path from the record's filename
//  2. Skip if anything already exists there
//  3. GET the whole file into memory
//  4. Write it atomically
//  5. Set the file time to the record's timestamp
//  6. Write a thumbnail for images (optional)
//
// # Manager
//
// The Manager feeds a batch of records to a fixed pool of workers:
//
//	client := http.NewClient(settings.HTTPTimeout(), settings.UserAgent)
//	fetcher := download.NewFetcher(client, settings.ToFetcherConfig(), log)
//	manager := download.NewManager(fetcher, settings.MaxConcurrentDownloads, log)
//
//	report, err := manager.DownloadAll(ctx, records, "/Volumes/Backup/Memories", func(done, total int) {
//	    fmt.Printf("\r%d/%d", done, total)
//	})
//	if err != nil {
//	    log.Fatal(err) // download.ErrPermission
//	}
//	fmt.Println(report.Summary())
//
// # Concurrency
//
// At most MaxConcurrentDownloads fetches run at once. A single goroutine
// admits records one by one into an unbuffered channel, so a record is
// admitted only when a worker is free. Results flow back to the caller's
// goroutine, which owns the Report and the progress callback.
//
// # Errors
//
// Per-record failures wrap ErrInvalidURL, ErrTransfer or ErrWrite and stay
// in the Outcome. Records whose target already exists are Skipped, not
// failed. There are no retries.
package download
