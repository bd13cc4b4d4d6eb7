// Package review holds the reviewed code artifact and the line-based
// segmentation used by the downstream feedback viewer.
package review

// Artifact is the handoff payload produced by the completion path: the
// submitted code, its language, and the reviewer's feedback once the
// remote review call has succeeded.
type Artifact struct {
	Code     string
	Language string

	feedback    string
	hasFeedback bool
}

func NewArtifact(code, language string) *Artifact {
	return &Artifact{Code: code, Language: language}
}

// AttachFeedback records the review feedback. The first attachment wins;
// later calls are no-ops so a retried review cannot rewrite the artifact.
func (a *Artifact) AttachFeedback(feedback string) bool {
	if a.hasFeedback {
		return false
	}
	a.feedback = feedback
	a.hasFeedback = true
	return true
}

// Feedback returns the attached feedback text and whether one was ever
// attached. An artifact handed off without feedback reports false.
func (a *Artifact) Feedback() (string, bool) {
	return a.feedback, a.hasFeedback
}
