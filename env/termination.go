package env

import "fmt"

// Kind is the terminal state of an invocation.
type Kind uint8

const (
	Finished Kind = iota
	Reverted
)

func (k Kind) String() string {
	if k == Reverted {
		return "reverted"
	}
	return "finished"
}

// Termination is raised by Finish and Revert and recovered at the
// invocation entry.
type Termination struct {
	Kind    Kind
	Payload []byte
}

func (t *Termination) Error() string {
	return fmt.Sprintf("execution %s with %d bytes", t.Kind, len(t.Payload))
}

// Success reports whether the invocation finished.
func (t *Termination) Success() bool {
	return t.Kind == Finished
}

// Terminate stops the current invocation. It never returns.
func Terminate(kind Kind, payload []byte) {
	panic(&Termination{Kind: kind, Payload: append([]byte(nil), payload...)})
}

// Catch runs fn and returns the termination it raised, or nil when fn
// returned normally. Other panics propagate.
func Catch(fn func()) (t *Termination) {
	defer func() {
		if r := recover(); r != nil {
			term, ok := r.(*Termination)
			if !ok {
				panic(r)
			}
			t = term
		}
	}()
	fn()
	return nil
}
