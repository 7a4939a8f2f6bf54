package manifest

import (
	"errors"

	"cha/internal/diag"
	"cha/internal/universe"
)

// Resolve builds the universe of s and reports every resolution problem to
// r. It returns nil when the declarations do not form a valid hierarchy.
func (s *Set) Resolve(r diag.Reporter) *universe.Universe {
	u, err := s.Universe()
	if err == nil {
		return u
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		code := diag.ManParseError
		switch {
		case errors.Is(e, universe.ErrCycle):
			code = diag.ManCycle
		case errors.Is(e, universe.ErrUnknownClass):
			code = diag.ManUnknownClass
		case errors.Is(e, universe.ErrDuplicateClass):
			code = diag.ManDuplicateClass
		}
		var subject diag.Subject
		msg := e.Error()
		var ce *universe.ClassError
		if errors.As(e, &ce) {
			subject = diag.Subject{File: s.Origin(ce.Class), Class: ce.Class}
			msg = ce.Err.Error()
		}
		diag.ReportError(r, code, subject, msg).Emit()
	}
	return nil
}
