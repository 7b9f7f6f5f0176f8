package attrfs

// Mode describes which operations an attribute supports.
type Mode uint8

const (
	// ModeRead allows Read.
	ModeRead Mode = 1 << iota
	// ModeWrite allows Write.
	ModeWrite
)

// String returns an ls-style rendering such as "rw" or "-w".
func (m Mode) String() string {
	b := []byte("--")
	if m&ModeRead != 0 {
		b[0] = 'r'
	}
	if m&ModeWrite != 0 {
		b[1] = 'w'
	}
	return string(b)
}

// ClassAttr is an attribute that lives at the class root, independent of any node.
// A nil Show makes it write-only, a nil Store read-only.
type ClassAttr struct {
	Name  string
	Show  func() (string, error)
	Store func(text string) error
}

// Mode reports the operations the attribute supports.
func (a ClassAttr) Mode() Mode {
	return modeOf(a.Show != nil, a.Store != nil)
}

// Attr is a per-node attribute. Show and Store receive the data value the node
// was published with.
type Attr[T any] struct {
	Name  string
	Show  func(data T) (string, error)
	Store func(data T, text string) error
}

// Mode reports the operations the attribute supports.
func (a Attr[T]) Mode() Mode {
	return modeOf(a.Show != nil, a.Store != nil)
}

func modeOf(readable, writable bool) Mode {
	var m Mode
	if readable {
		m |= ModeRead
	}
	if writable {
		m |= ModeWrite
	}
	return m
}

// Entry describes one item returned by List.
type Entry struct {
	Name  string
	Mode  Mode
	IsDir bool
}
