package deck

// ValidationError reports a malformed category or deck specification, such
// as an unknown color symbol or category counts exceeding the declared deck
// size. It is constructed at the point of detection and propagated
// unchanged; the model never clamps or coerces invalid inputs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "deck validation: " + e.Msg }

// DomainError reports an operation that violates a combinatorial
// precondition, such as drawing more cards than the deck contains or a
// count vector component exceeding the available count. These errors are
// deterministic for a given input, so callers must not retry.
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return "deck domain: " + e.Msg }
