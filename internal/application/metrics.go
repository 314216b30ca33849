package application

// Recorder receives domain counters from the services. internal/metrics
// provides the Prometheus implementation.
type Recorder interface {
	EventCreated(source string)
	EventCompleted(policy CompletionPolicy)
	SuggestionsGenerated(n int)
	SuggestionsSkipped(n int)
	SuggestionAccepted(edited bool)
	SuggestionDismissed(scope DismissalScope)
	ServiceError(service, operation, kind string)
}

// Event sources reported to Recorder.EventCreated.
const (
	SourceManual     = "manual"
	SourceTemplate   = "template"
	SourceSuggestion = "suggestion"
	SourceRecurrence = "recurrence"
)

type nopRecorder struct{}

func (nopRecorder) EventCreated(string) {}
func (nopRecorder) EventCompleted(CompletionPolicy) {}
func (nopRecorder) SuggestionsGenerated(int) {}
func (nopRecorder) SuggestionsSkipped(int) {}
func (nopRecorder) SuggestionAccepted(bool) {}
func (nopRecorder) SuggestionDismissed(DismissalScope) {}
func (nopRecorder) ServiceError(string, string, string) {}

func defaultRecorder(r Recorder) Recorder {
	if r != nil {
		return r
	}
	return nopRecorder{}
}
