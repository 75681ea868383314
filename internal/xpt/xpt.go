// Package xpt reads SAS XPORT (transport format version 5) files. A SEND
// submission ships one .xpt file per domain; each file is a sequence of
// 80-byte header records describing the member and its variables, followed
// by fixed-width observation records.
package xpt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

const recordLen = 80

const (
	libraryHeaderPrefix = "HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!"
	memberHeaderPrefix  = "HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!"
	dscrptrHeaderPrefix = "HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!"
	namestrHeaderPrefix = "HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!"
	obsHeaderPrefix     = "HEADER RECORD*******OBS     HEADER RECORD!!!!!!!"
)

// VarType is the NAMESTR variable type.
type VarType int

const (
	Numeric   VarType = 1
	Character VarType = 2
)

// Variable describes one column of the member dataset.
type Variable struct {
	Name   string
	Label  string
	Type   VarType
	Length int
	Pos    int
}

// Row holds one observation. Values are trimmed strings for character
// variables, float64 for numeric variables, or nil for missing numerics.
type Row map[string]any

// File is a decoded transport member.
type File struct {
	Name    string
	Columns []string
	Vars    []Variable
	Rows    []Row
}

// Read decodes the transport file at path. A missing file returns an error
// satisfying IsNotExist; anything structurally wrong returns a decode error.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("xpt: %s: %w", path, err)
	}
	return f, nil
}

// IsNotExist reports whether err came from reading an absent file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Decode parses raw transport bytes into a File.
func Decode(data []byte) (*File, error) {
	r := &reader{data: data}

	lib, err := r.record()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(lib, libraryHeaderPrefix) {
		return nil, errors.New("not a transport file: missing library header")
	}
	// Two real header records: SAS version/OS and modification timestamp.
	if _, err := r.record(); err != nil {
		return nil, err
	}
	if _, err := r.record(); err != nil {
		return nil, err
	}

	member, err := r.record()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(member, memberHeaderPrefix) {
		return nil, errors.New("missing member header record")
	}
	namestrSize := 140
	if n, err := strconv.Atoi(strings.TrimSpace(member[68:78])); err == nil && (n == 136 || n == 140) {
		namestrSize = n
	}

	dscrptr, err := r.record()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(dscrptr, dscrptrHeaderPrefix) {
		return nil, errors.New("missing descriptor header record")
	}

	// Member data records: the first carries the dataset name at bytes 8-16.
	memberData, err := r.record()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(memberData[8:16])
	if _, err := r.record(); err != nil {
		return nil, err
	}

	namestrHeader, err := r.record()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(namestrHeader, namestrHeaderPrefix) {
		return nil, errors.New("missing namestr header record")
	}
	nvars, err := strconv.Atoi(strings.TrimSpace(namestrHeader[48:58]))
	if err != nil || nvars <= 0 {
		return nil, errors.New("invalid variable count in namestr header")
	}

	vars, err := r.namestrs(nvars, namestrSize)
	if err != nil {
		return nil, err
	}

	obs, err := r.record()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(obs, obsHeaderPrefix) {
		return nil, errors.New("missing observation header record")
	}

	rowLen := 0
	for _, v := range vars {
		if end := v.Pos + v.Length; end > rowLen {
			rowLen = end
		}
	}
	if rowLen == 0 {
		return nil, errors.New("zero-length observation record")
	}

	columns := make([]string, len(vars))
	for i, v := range vars {
		columns[i] = v.Name
	}

	f := &File{Name: name, Columns: columns, Vars: vars}
	for r.pos+rowLen <= len(r.data) {
		chunk := r.data[r.pos : r.pos+rowLen]
		if allBlank(chunk) {
			break
		}
		row := make(Row, len(vars))
		for _, v := range vars {
			raw := chunk[v.Pos : v.Pos+v.Length]
			if v.Type == Character {
				row[v.Name] = strings.TrimSpace(strings.TrimRight(string(raw), "\x00"))
			} else {
				val, missing := ibmToFloat(raw)
				if missing {
					row[v.Name] = nil
				} else {
					row[v.Name] = val
				}
			}
		}
		f.Rows = append(f.Rows, row)
		r.pos += rowLen
	}

	return f, nil
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) record() (string, error) {
	if r.pos+recordLen > len(r.data) {
		return "", errors.New("truncated transport file")
	}
	rec := string(r.data[r.pos : r.pos+recordLen])
	r.pos += recordLen
	return rec, nil
}

// namestrs reads nvars descriptor entries and advances past the 80-byte
// padding that follows the namestr block.
func (r *reader) namestrs(nvars, size int) ([]Variable, error) {
	total := nvars * size
	if r.pos+total > len(r.data) {
		return nil, errors.New("truncated namestr block")
	}
	vars := make([]Variable, 0, nvars)
	for i := 0; i < nvars; i++ {
		b := r.data[r.pos+i*size : r.pos+(i+1)*size]
		v := Variable{
			Name:   strings.TrimSpace(string(b[8:16])),
			Label:  strings.TrimSpace(string(b[16:56])),
			Type:   VarType(binary.BigEndian.Uint16(b[0:2])),
			Length: int(binary.BigEndian.Uint16(b[4:6])),
			Pos:    int(binary.BigEndian.Uint32(b[84:88])),
		}
		if v.Type != Numeric && v.Type != Character {
			return nil, fmt.Errorf("variable %q has unknown type %d", v.Name, v.Type)
		}
		if v.Length <= 0 {
			return nil, fmt.Errorf("variable %q has invalid length %d", v.Name, v.Length)
		}
		vars = append(vars, v)
	}
	r.pos += total
	if rem := r.pos % recordLen; rem != 0 {
		r.pos += recordLen - rem
	}
	return vars, nil
}

func allBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != 0 {
			return false
		}
	}
	return true
}
