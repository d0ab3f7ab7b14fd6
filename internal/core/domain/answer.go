package domain

// NotFoundText is the answer text an ask agent returns when the
// retrieved context does not contain the answer.
const NotFoundText = "NOT_FOUND"

// AskResponse is a grounded answer to a question.
type AskResponse struct {
	// Text is the answer, or NotFoundText.
	Text string `json:"text" yaml:"text"`

	// Sources lists the chunk sources the answer was drawn from.
	Sources []string `json:"sources" yaml:"sources"`
}

// Found reports whether the agent produced an answer.
func (r AskResponse) Found() bool {
	return r.Text != "" && r.Text != NotFoundText
}
