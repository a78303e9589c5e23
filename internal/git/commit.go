package git

import "regexp"

// ExtractIssue returns the first match of issueRegex in branch.
// Matches are taken in scan order. When the pattern has exactly one capture
// group, the group's text is the issue; an empty result counts as no issue.
func ExtractIssue(branch string, issueRegex *regexp.Regexp) (string, bool) {
	if issueRegex == nil {
		return "", false
	}

	matches := issueRegex.FindAllStringSubmatch(branch, -1)
	if len(matches) == 0 {
		return "", false
	}

	issue := matches[0][0]
	if issueRegex.NumSubexp() == 1 {
		issue = matches[0][1]
	}
	if issue == "" {
		return "", false
	}

	return issue, true
}
