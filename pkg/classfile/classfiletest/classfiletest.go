// Package classfiletest assembles small but valid class files for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Minimal returns a class file for the class with the given binary name
// (e.g. "com.example.Foo"). It extends java.lang.Object, declares one
// long constant field, and carries a SourceFile attribute. The constant
// pool contains a Long entry so that wide slots are exercised.
func Minimal(binaryName string) []byte {
	internal := strings.ReplaceAll(binaryName, ".", "/")
	simple := internal[strings.LastIndex(internal, "/")+1:]

	var buf bytes.Buffer
	w := func(v interface{}) {
		_ = binary.Write(&buf, binary.BigEndian, v)
	}
	utf8 := func(s string) {
		w(uint8(1))
		w(uint16(len(s)))
		buf.WriteString(s)
	}

	w(uint32(0xCAFEBABE))
	w(uint16(0))  // minor
	w(uint16(52)) // major, Java 8

	w(uint16(13))
	w(uint8(7)) // #1 Class
	w(uint16(2))
	utf8(internal) // #2
	w(uint8(7))    // #3 Class
	w(uint16(4))
	utf8("java/lang/Object")   // #4
	utf8("SourceFile")         // #5
	utf8(simple + ".java")     // #6
	w(uint8(5))                // #7 Long, #8 unusable
	w(uint64(0x0102030405060708))
	utf8("VALUE")         // #9
	utf8("J")             // #10
	utf8("ConstantValue") // #11
	utf8("Deprecated")    // #12

	w(uint16(0x0021)) // public super
	w(uint16(1))      // this
	w(uint16(3))      // super
	w(uint16(0))      // interfaces

	w(uint16(1)) // fields
	w(uint16(0x0019))
	w(uint16(9))
	w(uint16(10))
	w(uint16(1))
	w(uint16(11))
	w(uint32(2))
	w(uint16(7))

	w(uint16(0)) // methods

	w(uint16(2)) // attributes
	w(uint16(5))
	w(uint32(2))
	w(uint16(6))
	w(uint16(12))
	w(uint32(0))

	return buf.Bytes()
}

// WriteClass writes the Minimal class file for binaryName below dir,
// at the path the class would have in a classes directory, and returns that path.
func WriteClass(t testing.TB, dir, binaryName string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(binaryName, ".", "/")+".class"))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, Minimal(binaryName), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
