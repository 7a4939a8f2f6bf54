package universe

// ClassID identifies a class inside the universe arena.
type ClassID uint32

const (
	// NoClassID marks the absence of a class reference.
	NoClassID ClassID = 0
)

// IsValid reports whether the class ID refers to a declared class.
func (id ClassID) IsValid() bool { return id != NoClassID }
