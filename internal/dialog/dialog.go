package dialog

// ErrorCode keys a fatal condition to a generic error dialog. The pipeline
// never retries on its own; each code requires the user to re-trigger the
// whole operation.
type ErrorCode uint32

const (
	// CodeArchiveOpen is reported when the downloaded package cannot be
	// opened as an archive.
	CodeArchiveOpen ErrorCode = 0x80101000
	// CodeExtract is reported when extraction failed or was canceled.
	CodeExtract ErrorCode = 0x80101001
	// CodeManifest is reported when the staged package header could not be
	// generated.
	CodeManifest ErrorCode = 0x80101002
	// CodeDownload is reported when the accept-branch package download failed.
	CodeDownload ErrorCode = 0x80101003
)

// UI is the dialog collaborator consumed by the pipeline workers. How a
// question or progress bar is rendered is outside this pipeline's concern;
// implementations only have to honor the step-store signaling contract.
type UI interface {
	// AskQuestion presents a yes/no prompt. It must not block: the answer
	// arrives later as a step-store transition away from StepUpdateQuestion
	// (StepNone for a decline, any other step for an accept).
	AskQuestion(message string)

	// InitProgress opens a progress view titled title at 0%.
	InitProgress(title string)

	// SetProgress pushes a 0-100 percentage to the progress view.
	SetProgress(percent int)

	// Close dismisses whatever dialog is currently shown.
	Close()

	// ShowError renders the generic error dialog for code.
	ShowError(code ErrorCode, err error)
}
