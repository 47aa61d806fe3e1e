package face

import "fmt"

// Expression selects how the mouth is drawn.
type Expression int

const (
	// ExpressionNormal is the resting face, a gentle smile.
	ExpressionNormal Expression = iota

	// ExpressionHappy is a wide open smile.
	ExpressionHappy

	// ExpressionTalking animates the mouth while speech plays.
	ExpressionTalking
)

// String returns the wire name of the expression.
func (e Expression) String() string {
	switch e {
	case ExpressionNormal:
		return "normal"
	case ExpressionHappy:
		return "happy"
	case ExpressionTalking:
		return "talking"
	default:
		return fmt.Sprintf("expression(%d)", int(e))
	}
}

// Valid reports whether e is a known expression.
func (e Expression) Valid() bool {
	switch e {
	case ExpressionNormal, ExpressionHappy, ExpressionTalking:
		return true
	}
	return false
}

// ParseExpression maps a wire name back to an Expression.
func ParseExpression(s string) (Expression, error) {
	switch s {
	case "normal":
		return ExpressionNormal, nil
	case "happy":
		return ExpressionHappy, nil
	case "talking":
		return ExpressionTalking, nil
	}
	return ExpressionNormal, fmt.Errorf("unknown expression %q", s)
}

// MarshalText implements encoding.TextMarshaler so State serializes
// expressions by name.
func (e Expression) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("unknown expression %d", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Expression) UnmarshalText(text []byte) error {
	parsed, err := ParseExpression(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
