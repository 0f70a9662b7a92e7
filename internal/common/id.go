package common

import (
	"github.com/google/uuid"
)

// NewSessionID generates a unique content session ID with the "ses_" prefix
func NewSessionID() string {
	return "ses_" + uuid.New().String()
}

// NewIdeaID generates a unique idea ID with the "idea_" prefix
func NewIdeaID() string {
	return "idea_" + uuid.New().String()
}

// NewQuestionID generates a unique question ID with the "que_" prefix
func NewQuestionID() string {
	return "que_" + uuid.New().String()
}

// NewAnswerID generates a unique answer ID with the "ans_" prefix
func NewAnswerID() string {
	return "ans_" + uuid.New().String()
}

// NewVersionID generates a unique content version ID with the "ver_" prefix
func NewVersionID() string {
	return "ver_" + uuid.New().String()
}

// NewIntegrationID generates a unique integration ID with the "int_" prefix
func NewIntegrationID() string {
	return "int_" + uuid.New().String()
}

// NewPublishJobID generates a unique publish job ID with the "pub_" prefix
func NewPublishJobID() string {
	return "pub_" + uuid.New().String()
}

// NewVideoJobID generates a unique media job ID with the "vid_" prefix
func NewVideoJobID() string {
	return "vid_" + uuid.New().String()
}
