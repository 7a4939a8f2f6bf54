package diag

// Reporter is the minimal contract producers use to emit diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter collects diagnostics into a Bag.
type BagReporter struct {
	Bag *Bag
}

// Report implements Reporter.
func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Diagnostic) {}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, subject Subject, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Subject:  subject,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, subject Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, subject, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, subject Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, subject, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, subject Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, subject, msg)
}

// WithNote appends a note to the diagnostic.
func (b *ReportBuilder) WithNote(subject Subject, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Subject: subject, Msg: msg})
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}
