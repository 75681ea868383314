// Package xpttest writes small SAS XPORT v5 files for tests.
package xpttest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
)

// Var declares one variable of a synthetic dataset. Numeric variables are
// always written as full 8-byte IBM floats; character variables use Length
// (default 40).
type Var struct {
	Name    string
	Numeric bool
	Length  int
}

// WriteFile encodes vars/rows as a transport member named name and writes
// it to path. Row values may be string, float64 or int; nil or absent
// values become blanks (character) or SAS missing "." (numeric).
func WriteFile(path, name string, vars []Var, rows []map[string]any) error {
	return os.WriteFile(path, Encode(name, vars, rows), 0o644)
}

// Encode builds the transport byte stream.
func Encode(name string, vars []Var, rows []map[string]any) []byte {
	var buf bytes.Buffer

	record(&buf, "HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!"+strings.Repeat("0", 30))
	record(&buf, "SAS     SAS     SASLIB  9.4     Linux")
	record(&buf, "01JAN24:00:00:00")
	record(&buf, "HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!"+strings.Repeat("0", 16)+"0160"+"0000000140")
	record(&buf, "HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!"+strings.Repeat("0", 30))
	record(&buf, pad("SAS", 8)+pad(name, 8)+pad("SASDATA", 8)+pad("9.4", 8)+pad("Linux", 8))
	record(&buf, "01JAN24:00:00:00")
	record(&buf, fmt.Sprintf("HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!%010d%s", len(vars), strings.Repeat("0", 20)))

	pos := 0
	for i, v := range vars {
		length := v.Length
		if v.Numeric {
			length = 8
		} else if length == 0 {
			length = 40
		}
		buf.Write(namestr(v, i+1, length, pos))
		pos += length
	}
	padRecord(&buf)

	record(&buf, "HEADER RECORD*******OBS     HEADER RECORD!!!!!!!"+strings.Repeat("0", 30))

	for _, row := range rows {
		for _, v := range vars {
			if v.Numeric {
				buf.Write(numericCell(row[v.Name]))
			} else {
				length := v.Length
				if length == 0 {
					length = 40
				}
				s, _ := row[v.Name].(string)
				buf.WriteString(pad(s, length))
			}
		}
	}
	padRecord(&buf)

	return buf.Bytes()
}

func namestr(v Var, varnum, length, pos int) []byte {
	b := make([]byte, 140)
	for i := range b {
		b[i] = ' '
	}
	ntype := uint16(2)
	if v.Numeric {
		ntype = 1
	}
	binary.BigEndian.PutUint16(b[0:2], ntype)
	binary.BigEndian.PutUint16(b[2:4], 0)
	binary.BigEndian.PutUint16(b[4:6], uint16(length))
	binary.BigEndian.PutUint16(b[6:8], uint16(varnum))
	copy(b[8:16], pad(v.Name, 8))
	copy(b[16:56], pad(v.Name, 40))
	binary.BigEndian.PutUint32(b[84:88], uint32(pos))
	return b
}

func numericCell(val any) []byte {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		// SAS missing value
		cell := make([]byte, 8)
		cell[0] = '.'
		return cell
	}
	b := ibmFromFloat(f)
	return b[:]
}

func ibmFromFloat(f float64) [8]byte {
	var buf [8]byte
	if f == 0 {
		return buf
	}
	var sign byte
	if f < 0 {
		sign = 0x80
		f = -f
	}
	exp := 0
	for f >= 1 {
		f /= 16
		exp++
	}
	for f < 1.0/16 {
		f *= 16
		exp--
	}
	mantissa := uint64(math.Round(f * float64(uint64(1)<<56)))
	if mantissa >= uint64(1)<<56 {
		mantissa >>= 4
		exp++
	}
	binary.BigEndian.PutUint64(buf[:], mantissa)
	buf[0] = sign | byte(exp+64)
	return buf
}

func record(buf *bytes.Buffer, s string) {
	buf.WriteString(pad(s, 80))
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func padRecord(buf *bytes.Buffer) {
	if rem := buf.Len() % 80; rem != 0 {
		buf.WriteString(strings.Repeat(" ", 80-rem))
	}
}
