package model

// Question is one entry in a topic's question bank. Instances are created by
// the question source and read-only to the rest of the system.
type Question struct {
	Text            string `json:"question" bson:"question"`
	ReferenceAnswer string `json:"answer" bson:"answer"`
	Topic           string `json:"topic,omitempty" bson:"topic,omitempty"`
}

// SelectionMode is the policy for picking which questions enter a session.
type SelectionMode string

const (
	SelectionSequential SelectionMode = "sequential"
	SelectionRandom     SelectionMode = "random"
	SelectionMixed      SelectionMode = "mixed"
)

// Valid reports whether the mode is one of the known selection policies.
func (m SelectionMode) Valid() bool {
	switch m {
	case SelectionSequential, SelectionRandom, SelectionMixed:
		return true
	}
	return false
}

// QuestionBank is a persisted per-topic question collection.
type QuestionBank struct {
	Topic     string     `json:"topic" bson:"_id"`
	Questions []Question `json:"questions" bson:"questions"`
}
