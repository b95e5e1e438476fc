package model

import "time"

// Evaluation is the structured end-of-interview scoring returned by the
// grading provider.
type Evaluation struct {
	OverallScore int      `json:"overallScore" bson:"overallScore"`
	Feedback     string   `json:"feedback" bson:"feedback"`
	Strengths    []string `json:"strengths" bson:"strengths"`
	Weaknesses   []string `json:"weaknesses" bson:"weaknesses"`
}

// SessionRecord is the persisted result of one finished interview session.
// It is created exactly once, at completion, and never mutated after write.
type SessionRecord struct {
	SessionID  string     `json:"sessionId" bson:"_id"`
	UserID     string     `json:"userId" bson:"userId"`
	Topic      string     `json:"topic" bson:"topic"`
	Score      int        `json:"score" bson:"score"`
	StartedAt  time.Time  `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt" bson:"finishedAt"`
	Transcript string     `json:"transcript" bson:"transcript"`
	Feedback   string     `json:"feedback" bson:"feedback"`
	Evaluation Evaluation `json:"evaluation" bson:"evaluation"`
}
