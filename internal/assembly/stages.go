package assembly

// Stages a recipient passes through. The signing stages are only visited when
// signed fragments are configured.
const (
	StageStart                 = "start"
	StageFragmentsRendered     = "fragments_rendered"
	StagePicturePathInjected   = "picture_path_injected"
	StageSignedSubsetExtracted = "signed_subset_extracted"
	StageSigned                = "signed"
	StageMerged                = "merged"
	StageCompiled              = "compiled"
	StageDone                  = "done"
)

// RecipientReport records the progress of one recipient.
type RecipientReport struct {
	Index  int
	Stages []string
	PDF    string
}

// Report summarizes a run.
type Report struct {
	Recipients []RecipientReport
	// WorkDir is the working directory; it no longer exists when Kept is false.
	WorkDir string
	Kept    bool
	Output  string
}
