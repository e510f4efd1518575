package dtype

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

// ConversionError reports that a raw byte slice could not be decoded into
// the ColumnValue its declared DataType calls for.
var ConversionError = errors.New("dtype: conversion error")

// Canonical decodes a raw byte slice into a typed ColumnValue according to
// dt. A returned Bytes ColumnValue aliases data, so the caller must not
// mutate data afterward; a returned Utf8 ColumnValue holds its own copy of
// the string and does not alias data. Utf8 max_bytes is not re-checked here — schema
// validation has already bounded it before storage.
func Canonical(dt DataType, data []byte) (ColumnValue, error) {
	switch dt.kind {
	case kindU32:
		if len(data) != 4 {
			return ColumnValue{}, ConversionError
		}
		return U32Value(binary.LittleEndian.Uint32(data)), nil
	case kindF64:
		if len(data) != 8 {
			return ColumnValue{}, ConversionError
		}
		bits := binary.LittleEndian.Uint64(data)
		return F64Value(math.Float64frombits(bits)), nil
	case kindUtf8:
		if !utf8.Valid(data) {
			return ColumnValue{}, ConversionError
		}
		return Utf8Value(string(data)), nil
	case kindVarBinary:
		return BytesValue(data), nil
	case kindBuffer:
		if len(data) != dt.length {
			return ColumnValue{}, ConversionError
		}
		return BytesValue(data), nil
	default:
		return ColumnValue{}, ConversionError
	}
}
