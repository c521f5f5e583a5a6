package optbind

// Kind identifies the destination type of a registered option. The set of
// kinds is closed: matching and value conversion dispatch over this enum, one
// value implementation per kind, with no runtime type inspection.
type Kind int

const (
	KindInvalid Kind = iota

	// Scalar kinds accepted by the generic Var registration path.
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool

	// Extended kinds, registered only through their dedicated helpers.
	KindDuration
	KindUUID
	KindDecimal

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid:  "invalid",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindBool:     "bool",
	KindDuration: "duration",
	KindUUID:     "uuid",
	KindDecimal:  "decimal",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "invalid"
	}
	return kindNames[k]
}
