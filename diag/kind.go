package diag

// Kind classifies a failure. The numeric values are stable.
type Kind uint8

const (
	// KindOK means no error.
	KindOK Kind = iota
	// KindError is a generic failure.
	KindError
	// KindBadArg means an illegal argument was used.
	KindBadArg
	// KindBadPath means a bad path was supplied.
	KindBadPath
	// KindNotImpl means the operation is not implemented.
	KindNotImpl
	// KindBadVersion means a format or library version does not match.
	KindBadVersion
	// KindCantLoadLib means a library could not be loaded.
	KindCantLoadLib
	// KindCantCreateObj means an object could not be created.
	KindCantCreateObj
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindError:
		return "Error"
	case KindBadArg:
		return "BadArg"
	case KindBadPath:
		return "BadPath"
	case KindNotImpl:
		return "NotImpl"
	case KindBadVersion:
		return "BadVersion"
	case KindCantLoadLib:
		return "CantLoadLib"
	case KindCantCreateObj:
		return "CantCreateObj"
	default:
		return "Unknown"
	}
}
