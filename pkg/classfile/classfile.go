// Package classfile reads and writes JVM class files and provides
// access to named custom attributes of the class.
//
// Only the top-level attribute table is ever modified, plus Utf8
// constants appended to the constant pool for new attribute names.
// Everything else is carried through verbatim, so a class file that
// is parsed and written back without modification is byte-identical.
package classfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/zeebo/errs"
)

// Error is the error class of this package.
var Error = errs.Class("classfile")

// Magic is the magic number every class file starts with.
const Magic = 0xCAFEBABE

// Attribute is an entry of an attribute table.
type Attribute struct {
	NameIndex uint16
	Data      []byte
}

// Member is a field or a method.
type Member struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*Attribute
}

// ClassFile is the in-memory form of a class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []*Member
	Methods      []*Member
	Attributes   []*Attribute
}

// Parse reads a complete class file from r.
func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a class file image.
func ParseBytes(data []byte) (*ClassFile, error) {
	d := &decoder{buf: data}

	if magic := d.u4(); d.err == nil && magic != Magic {
		return nil, Error.New("bad magic 0x%08X", magic)
	}

	cf := &ClassFile{ConstantPool: &ConstantPool{}}
	cf.MinorVersion = d.u2()
	cf.MajorVersion = d.u2()
	if d.err != nil {
		return nil, d.err
	}

	if err := cf.ConstantPool.read(d); err != nil {
		return nil, err
	}

	cf.AccessFlags = d.u2()
	cf.ThisClass = d.u2()
	cf.SuperClass = d.u2()

	count := int(d.u2())
	cf.Interfaces = make([]uint16, 0, count)
	for i := 0; i < count && d.err == nil; i++ {
		cf.Interfaces = append(cf.Interfaces, d.u2())
	}

	cf.Fields = d.members()
	cf.Methods = d.members()
	cf.Attributes = d.attributes()

	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, Error.New("%d trailing bytes after class file", len(d.buf)-d.off)
	}

	return cf, nil
}

// WriteTo encodes the class file to w.
func (c *ClassFile) WriteTo(w io.Writer) (int64, error) {
	b, err := c.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), Error.Wrap(err)
}

// Bytes encodes the class file.
func (c *ClassFile) Bytes() ([]byte, error) {
	if len(c.Interfaces) > math.MaxUint16 || len(c.Fields) > math.MaxUint16 || len(c.Methods) > math.MaxUint16 {
		return nil, Error.New("too many interfaces, fields or methods")
	}

	e := &encoder{}
	e.u4(Magic)
	e.u2(c.MinorVersion)
	e.u2(c.MajorVersion)
	c.ConstantPool.write(e)
	e.u2(c.AccessFlags)
	e.u2(c.ThisClass)
	e.u2(c.SuperClass)

	e.u2(uint16(len(c.Interfaces)))
	for _, i := range c.Interfaces {
		e.u2(i)
	}

	e.members(c.Fields)
	e.members(c.Methods)
	e.attributes(c.Attributes)

	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// ClassName returns the binary name of the class, e.g. "com.example.Foo".
func (c *ClassFile) ClassName() (string, error) {
	cls := c.ConstantPool.Entry(c.ThisClass)
	if cls == nil || cls.Tag != TagClass {
		return "", Error.New("this_class index %d is not a Class constant", c.ThisClass)
	}
	name, err := c.ConstantPool.Utf8(cls.NameIndex())
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(name, "/", "."), nil
}

// AttributeNames returns the names of the top-level attributes in table order.
// Attributes with an unresolvable name are reported as an empty string.
func (c *ClassFile) AttributeNames() []string {
	names := make([]string, 0, len(c.Attributes))
	for _, a := range c.Attributes {
		name, _ := c.ConstantPool.Utf8(a.NameIndex)
		names = append(names, name)
	}
	return names
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.off < n {
		d.err = Error.New("unexpected end of class file at offset %d", d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u1() uint8 {
	b := d.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u2() uint16 {
	b := d.bytes(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u4() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) attributes() []*Attribute {
	count := int(d.u2())
	attrs := make([]*Attribute, 0, count)
	for i := 0; i < count && d.err == nil; i++ {
		nameIndex := d.u2()
		length := d.u4()
		if uint64(length) > uint64(len(d.buf)-d.off) {
			d.err = Error.New("attribute length %d exceeds remaining %d bytes", length, len(d.buf)-d.off)
			return nil
		}
		attrs = append(attrs, &Attribute{NameIndex: nameIndex, Data: d.bytes(int(length))})
	}
	return attrs
}

func (d *decoder) members() []*Member {
	count := int(d.u2())
	members := make([]*Member, 0, count)
	for i := 0; i < count && d.err == nil; i++ {
		m := &Member{
			AccessFlags:     d.u2(),
			NameIndex:       d.u2(),
			DescriptorIndex: d.u2(),
		}
		m.Attributes = d.attributes()
		members = append(members, m)
	}
	return members
}

type encoder struct {
	buf bytes.Buffer
	err error
}

func (e *encoder) u1(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u2(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u4(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) raw(b []byte) {
	e.buf.Write(b)
}

func (e *encoder) attributes(attrs []*Attribute) {
	if len(attrs) > math.MaxUint16 {
		e.err = Error.New("too many attributes: %d", len(attrs))
		return
	}
	e.u2(uint16(len(attrs)))
	for _, a := range attrs {
		if uint64(len(a.Data)) > math.MaxUint32 {
			e.err = Error.New("attribute of %d bytes is too large", len(a.Data))
			return
		}
		e.u2(a.NameIndex)
		e.u4(uint32(len(a.Data)))
		e.raw(a.Data)
	}
}

func (e *encoder) members(members []*Member) {
	e.u2(uint16(len(members)))
	for _, m := range members {
		e.u2(m.AccessFlags)
		e.u2(m.NameIndex)
		e.u2(m.DescriptorIndex)
		e.attributes(m.Attributes)
	}
}
