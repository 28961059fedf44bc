package object

// Bool wraps a boolean. Only the True and False instances exist, so two
// booleans are equal exactly when they are the same pointer.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o == b
}

func (b *Bool) MarshalJSON() ([]byte, error) {
	return []byte(b.Inspect()), nil
}
