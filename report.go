package lectern

// File is one uploaded deck by name and raw bytes.
type File struct {
	Name    string
	Content []byte
}

// IngestReport summarizes what one successful (or skipped) ingestion did.
type IngestReport struct {
	Filename string
	Slides   int
	Chunks   int
	Skipped  bool
}

// IngestResult pairs a file with its outcome. Report is nil when Err is set.
type IngestResult struct {
	Filename string
	Report   *IngestReport
	Err      error
}

// Answer is a grounded response with the slides that backed it, in rank
// order.
type Answer struct {
	Text    string
	Sources []Source
}

type Source struct {
	Filename string
	Slide    int
}
