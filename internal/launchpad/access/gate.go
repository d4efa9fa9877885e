package access

// Operation is the kind of thing a request wants to do to startup data.
type Operation string

const (
	OpRead           Operation = "read"
	OpWrite          Operation = "write"
	OpMentorFeedback Operation = "mentor_feedback"
)

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Authorize is the read-only gate. Mentors and investors can read; only the
// owner writes; only the live mentor may post feedback.
func Authorize(l Level, op Operation) Decision {
	switch op {
	case OpRead:
		return Decision(HasAnyAccess(l))
	case OpWrite:
		return Decision(CanWrite(l))
	case OpMentorFeedback:
		return Decision(l == LevelMentor)
	}
	return Deny
}
