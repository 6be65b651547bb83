package cartridge

import "fmt"

// ErrorKind classifies a cartridge load failure.
type ErrorKind int

const (
	// UnsupportedFormat means the input is not a recognised iNES 1.0
	// image (bad magic, or an NES 2.0 header).
	UnsupportedFormat ErrorKind = iota
	// UnsupportedMapper means the header names a mapper this core
	// does not implement.
	UnsupportedMapper
	// TruncatedROM means the declared PRG/CHR sizes exceed the
	// supplied bytes.
	TruncatedROM
)

// LoadError is returned by Load when an iNES image cannot be parsed.
type LoadError struct {
	Kind      ErrorKind
	MapperID  uint8 // only meaningful when Kind == UnsupportedMapper
	Detail    string
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case UnsupportedFormat:
		return fmt.Sprintf("cartridge: unsupported format: %s", e.Detail)
	case UnsupportedMapper:
		return fmt.Sprintf("cartridge: unsupported mapper %d", e.MapperID)
	case TruncatedROM:
		return fmt.Sprintf("cartridge: truncated rom: %s", e.Detail)
	default:
		return "cartridge: load error"
	}
}

// Is supports errors.Is against another *LoadError, comparing by kind
// only (mapper id / detail are not part of the identity).
func (e *LoadError) Is(target error) bool {
	other, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
