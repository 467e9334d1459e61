package models

// Kind identifies one of the three profile record families.
type Kind string

const (
	KindPractice Kind = "practice"
	KindHosting  Kind = "hosting"
	KindBlog     Kind = "blog"
)

var Kinds = []Kind{KindPractice, KindHosting, KindBlog}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPractice, KindHosting, KindBlog:
		return true
	}
	return false
}
