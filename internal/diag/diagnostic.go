package diag

import "fmt"

// Subject locates a diagnostic: a manifest file and optionally a class.
type Subject struct {
	File  string
	Class string
}

func (s Subject) String() string {
	switch {
	case s.File != "" && s.Class != "":
		return fmt.Sprintf("%s:%s", s.File, s.Class)
	case s.Class != "":
		return s.Class
	default:
		return s.File
	}
}

type Note struct {
	Subject Subject
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  Subject
	Notes    []Note
}
