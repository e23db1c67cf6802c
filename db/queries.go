package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Run queries

//go:embed sql/insert_run.sql
var InsertRunSQL string

//go:embed sql/delete_runs.sql
var DeleteRunsSQL string

//go:embed sql/select_latest_run.sql
var SelectLatestRunSQL string

// Clip queries

//go:embed sql/insert_clip.sql
var InsertClipSQL string

//go:embed sql/delete_clips.sql
var DeleteClipsSQL string

//go:embed sql/select_clips_by_run.sql
var SelectClipsByRunSQL string

//go:embed sql/select_next_pending_clip.sql
var SelectNextPendingClipSQL string

//go:embed sql/reset_processing_clips.sql
var ResetProcessingClipsSQL string

//go:embed sql/mark_clip_processing.sql
var MarkClipProcessingSQL string

//go:embed sql/mark_clip_complete.sql
var MarkClipCompleteSQL string

//go:embed sql/mark_clip_error.sql
var MarkClipErrorSQL string

// Selection queries

//go:embed sql/clear_clip_selection.sql
var ClearClipSelectionSQL string

//go:embed sql/select_clip.sql
var SelectClipSQL string
