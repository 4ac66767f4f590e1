package firebird

import (
	"fmt"
	"strings"

	"github.com/pseudomuto/dbmetatool/pkg/utils"
)

// Field type codes as stored in RDB$FIELDS.RDB$FIELD_TYPE.
const (
	TypeSmallInt  = 7
	TypeInteger   = 8
	TypeFloat     = 10
	TypeDate      = 12
	TypeTime      = 13
	TypeChar      = 14
	TypeBigInt    = 16
	TypeDouble    = 27
	TypeTimestamp = 35
	TypeVarchar   = 37
	TypeBlob      = 261
)

// SystemPrefix marks fields, relations and procedures owned by the engine.
// Columns declared with an inline type get an implicit RDB$nnn field source.
const SystemPrefix = "RDB$"

// FieldType is the type part of an RDB$FIELDS row.
type FieldType struct {
	Type       int
	Length     int
	Precision  int
	Scale      int
	CharLength int
}

// SQLType renders the field type as a SQL type.
func (f FieldType) SQLType() string {
	return MapFieldType(f.Type, f.Precision, f.Scale, f.CharLength)
}

// MapFieldType maps an engine type code to its SQL type. Integer types with
// a negative scale are exact numerics. Unknown codes render as UNKNOWN(code)
// rather than failing so that an export never stops on an unsupported type.
func MapFieldType(fieldType, precision, scale, charLength int) string {
	switch fieldType {
	case TypeSmallInt:
		return integerType("SMALLINT", precision, scale)
	case TypeInteger:
		return integerType("INTEGER", precision, scale)
	case TypeFloat:
		return "FLOAT"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeChar:
		return fmt.Sprintf("CHAR(%d)", charLength)
	case TypeBigInt:
		return integerType("BIGINT", precision, scale)
	case TypeDouble:
		return "DOUBLE PRECISION"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", charLength)
	case TypeBlob:
		return "BLOB"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", fieldType)
	}
}

func integerType(name string, precision, scale int) string {
	if scale < 0 {
		return fmt.Sprintf("NUMERIC(%d, %d)", precision, -scale)
	}

	return name
}

// ResolveType returns the type to declare for a column or parameter. User
// defined domains are referenced by (quoted if needed) name, implicit RDB$
// fields are expanded.
func ResolveType(fieldSource string, f FieldType) string {
	if IsSystemName(fieldSource) {
		return f.SQLType()
	}

	return utils.QuoteIdentifier(fieldSource)
}

// IsSystemName reports whether name belongs to the engine.
func IsSystemName(name string) bool {
	return strings.HasPrefix(name, SystemPrefix)
}
