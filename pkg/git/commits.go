package git

import "strings"

// CommitType constants for semantic commits
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeChore = "chore"
)

// Footer marks commits written by rolodex.
const Footer = "Powered-by: Rolodex"

// FormatChangeReason builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: Rolodex
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)

	return sb.String()
}

// AppendFooter appends the footer to a free-form message if not present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + Footer
}
