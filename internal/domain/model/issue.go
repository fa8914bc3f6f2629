package model

// Issue is a GitHub issue from the reviews repository, reduced to the fields
// the registry needs.
type Issue struct {
	Body      string
	Labels    []string // Label names in API order.
	Assignees []string // Assignee logins in API order.
	HTMLURL   string
}
