package extractor

import "time"

// ProgressReporter provides callbacks for reporting extraction progress.
// OnFileProcessed may be called from several goroutines when the extractor
// runs with more than one worker.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file enumeration begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of files to process.
	OnDiscoveryComplete(totalFiles int)

	// OnFileProcessed is called after each file, successful or not.
	OnFileProcessed(fileName string)

	// OnComplete is called once all files are processed.
	OnComplete(stats *Stats)
}

// Stats summarises one extraction run.
type Stats struct {
	FilesProcessed int
	FilesFailed    int
	TotalComments  int
	Duration       time.Duration
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                  {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string)    {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)            {}
