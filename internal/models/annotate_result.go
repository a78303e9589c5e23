package models

// AnnotateResult represents the result of annotating a single commit message
type AnnotateResult struct {
	// Branch is the branch name that was inspected ("" if lookup failed)
	Branch string
	// Issue is the uppercased identifier found in the branch name, if any
	Issue string
	// Token is the text that was inserted (rendered template or default prefix)
	Token string
	// Outcome says which path was taken
	Outcome Outcome
	// Message is the content written back (or that would be, in dry-run)
	Message string
	// BranchErr is the non-fatal branch lookup error, if any
	BranchErr error
}
