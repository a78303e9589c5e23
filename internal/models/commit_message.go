package models

import "strings"

// CommitMessage holds the raw contents of a commit message file
type CommitMessage struct {
	// Content is the file contents, byte for byte
	Content string
}

// NewCommitMessage creates a new CommitMessage
func NewCommitMessage(content string) CommitMessage {
	return CommitMessage{Content: content}
}

// Subject returns the first line of the message with surrounding whitespace removed
func (c CommitMessage) Subject() string {
	subject, _, _ := strings.Cut(c.Content, "\n")
	return strings.TrimSpace(subject)
}

// SubjectContains reports whether the subject line already mentions id
func (c CommitMessage) SubjectContains(id string) bool {
	return strings.Contains(c.Subject(), id)
}
