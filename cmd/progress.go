package cmd

import "github.com/cheggaaa/pb/v3"

// newProgressBar creates a progress bar that disappears when finished.
// It returns nil for a single item, nil bars are never touched.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	if total < 2 {
		return nil
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
