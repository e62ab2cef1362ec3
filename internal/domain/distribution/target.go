package distribution

// Kind identifies a distribution output.
type Kind string

const (
	// Node is the server-side distribution built for Node.js.
	Node Kind = "node"
	// Web is the browser distribution.
	Web Kind = "web"
)

// Kinds returns the distributions in the order they are patched.
func Kinds() []Kind {
	return []Kind{Node, Web}
}

// String returns the kind as a plain string.
func (k Kind) String() string {
	return string(k)
}

// Title returns the human-readable label used in log messages.
func (k Kind) Title() string {
	switch k {
	case Node:
		return "Node"
	case Web:
		return "Web"
	default:
		return string(k)
	}
}

// Target binds a distribution to its manifest and published package name.
type Target struct {
	// Kind is the distribution this target describes.
	Kind Kind
	// Path is the location of the generated package manifest.
	Path string
	// Name is the package name written into the manifest.
	Name string
	// Keywords are the descriptive tags written into the manifest.
	Keywords []string
}
