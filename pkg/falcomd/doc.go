// Package falcomd renders runtime-security telemetry as Markdown tables,
// looks up indicator reputation, and summarizes reports with a chat model.
//
// Quick start:
//
//	f := falcomd.New(falcomd.WithVirusTotal(os.Getenv("VT_API_KEY"), ""))
//
//	doc, err := f.EventsMarkdown(eventsFile, timelineFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(doc)
//
// A Falcomd holds a reputation cache and is not safe for concurrent use.
package falcomd
