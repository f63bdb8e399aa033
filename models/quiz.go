package models

// Quiz is read-only question content. Choices are stored in canonical order,
// which is never shown to clients.
type Quiz struct {
	Name          string   `json:"name"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// IsCorrect compares a submitted choice against the stored answer.
func (q Quiz) IsCorrect(answer string) bool {
	return q.CorrectAnswer == answer
}
