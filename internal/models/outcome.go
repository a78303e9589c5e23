package models

// Outcome describes what a hook run did to the commit message
type Outcome int

const (
	// Unchanged means the message was written back as-is
	Unchanged Outcome = iota
	// Inserted means the rendered issue token was inserted
	Inserted
	// DefaultInserted means the fallback prefix was inserted
	DefaultInserted
)

// String returns a short name for logging
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Inserted:
		return "inserted"
	case DefaultInserted:
		return "default"
	default:
		return ""
	}
}

// Changed reports whether the message content was modified
func (o Outcome) Changed() bool {
	return o == Inserted || o == DefaultInserted
}
