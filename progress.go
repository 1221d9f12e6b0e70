package inventory

// ProgressEvent is a progress update sent while a Crawler runs.
type ProgressEvent struct {
	// Stage identifies the current phase.
	Stage ProgressStage

	// Path is the object just recorded or hashed.
	Path string

	// EntriesDone is the number of entries inserted so far by this Crawler.
	EntriesDone int

	// FilesDone is the number of files hashed in the current batch.
	FilesDone int

	// FilesTotal is the size of the current hashing batch. Zero means files
	// are hashed inline and the total is unknown.
	FilesTotal int
}

// ProgressStage identifies the current phase of a crawl.
type ProgressStage uint8

const (
	// StageCrawling indicates an entry was added to the catalog.
	StageCrawling ProgressStage = iota

	// StageHashing indicates a file digest was computed.
	StageHashing
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageCrawling:
		return "crawling"
	case StageHashing:
		return "hashing"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates. It is called from the goroutine
// running Crawl or Walk.
type ProgressFunc func(ProgressEvent)

// reportProgress sends a progress event if a callback is configured.
func (c *Crawler) reportProgress(stage ProgressStage, path string, filesDone, filesTotal int) {
	if c.cfg.progress == nil {
		return
	}
	c.cfg.progress(ProgressEvent{
		Stage:       stage,
		Path:        path,
		EntriesDone: c.stats.Entries,
		FilesDone:   filesDone,
		FilesTotal:  filesTotal,
	})
}
