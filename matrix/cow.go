package matrix

// Cow holds a matrix that is either owned or borrowed.
//
// Only an owned matrix may be modified, and only before it is handed to
// consumers through View.
type Cow struct {
	m     *Dense
	owned bool
}

// Owned takes ownership of m.
func Owned(m *Dense) Cow { return Cow{m: m, owned: true} }

// Borrowed refers to m without taking ownership.
func Borrowed(m *Dense) Cow { return Cow{m: m} }

// View returns the matrix for reading, regardless of ownership.
func (c Cow) View() *Dense { return c.m }

// IsOwned reports whether the matrix is owned.
func (c Cow) IsOwned() bool { return c.owned }

// Mut returns the matrix for modification. It panics on a borrowed matrix.
func (c Cow) Mut() *Dense {
	if !c.owned {
		panic("matrix: cannot mutate a borrowed matrix")
	}
	return c.m
}
