package harness

// Stage is one pipeline step and the instant it produced.
type Stage struct {
	Step    string `json:"step"`
	Instant string `json:"instant"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation matched.
	Pass bool `json:"pass"`

	// Zone is the zone the scenario ran in.
	Zone string `json:"zone"`

	// InputInstant is the parsed input; empty when parsing failed.
	InputInstant string `json:"input_instant,omitempty"`

	// Instant is the final instant; empty when the scenario errored.
	Instant string `json:"instant,omitempty"`

	// Trace lists each step in order with the instant it produced.
	Trace []Stage `json:"trace"`

	// Extract holds every evaluated getter's rendered value.
	Extract map[string]string `json:"extract"`

	// ErrorCode is the code of the error that stopped the scenario, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorMessage is that error's text.
	ErrorMessage string `json:"error_message,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []Stage{},
		Extract: make(map[string]string),
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStage appends a stage to the trace.
func (r *Result) AddStage(step, instant string) {
	r.Trace = append(r.Trace, Stage{Step: step, Instant: instant})
}
