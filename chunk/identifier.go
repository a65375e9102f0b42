package chunk

import "fmt"

// Identifier is the u32 tag that opens every chunk.
//
// Values are part of the file format and must never change.
type Identifier uint32

const (
	Header               Identifier = 0
	SimpleVocab          Identifier = 1
	NdArray              Identifier = 2
	BucketSubwordVocab   Identifier = 3
	QuantizedArray       Identifier = 4
	Metadata             Identifier = 5
	NdNorms              Identifier = 6
	FastTextSubwordVocab Identifier = 7
	ExplicitSubwordVocab Identifier = 8
)

// String returns the name of the identifier.
func (id Identifier) String() string {
	switch id {
	case Header:
		return "Header"
	case SimpleVocab:
		return "SimpleVocab"
	case NdArray:
		return "NdArray"
	case BucketSubwordVocab:
		return "BucketSubwordVocab"
	case QuantizedArray:
		return "QuantizedArray"
	case Metadata:
		return "Metadata"
	case NdNorms:
		return "NdNorms"
	case FastTextSubwordVocab:
		return "FastTextSubwordVocab"
	case ExplicitSubwordVocab:
		return "ExplicitSubwordVocab"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(id))
	}
}

// DataType tags the element type of an array stored in a chunk.
type DataType uint32

const (
	// Uint8 is a single unsigned byte.
	Uint8 DataType = 1
	// Float32 is an IEEE 754 single precision float.
	Float32 DataType = 10
)

// String returns the name of the data type.
func (t DataType) String() string {
	switch t {
	case Uint8:
		return "u8"
	case Float32:
		return "f32"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// Size returns the width in bytes of one element, or 0 if unknown.
func (t DataType) Size() int64 {
	switch t {
	case Uint8:
		return 1
	case Float32:
		return 4
	default:
		return 0
	}
}
