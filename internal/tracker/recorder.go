package tracker

// ShouldSnapshot decides whether an incoming observation warrants a new
// view snapshot. A snapshot is recorded only when the count parsed, and
// either the (video, query) pair is new or the stored count differs.
// Unchanged re-scrapes produce no snapshot, so the snapshot stream is a
// change log rather than a replay log.
func ShouldSnapshot(views *int64, isNew bool, prevViews *int64) bool {
	if views == nil {
		return false
	}
	if isNew {
		return true
	}
	return prevViews == nil || *prevViews != *views
}
