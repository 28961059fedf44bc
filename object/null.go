package object

type NullType struct{}

func (n *NullType) Type() Type {
	return NULL
}

func (n *NullType) Inspect() string {
	return "null"
}

func (n *NullType) String() string {
	return "null"
}

func (n *NullType) Interface() any {
	return nil
}

func (n *NullType) Equals(other Object) bool {
	_, ok := other.(*NullType)
	return ok
}

func (n *NullType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
