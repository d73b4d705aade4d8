package model

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// Read decodes a module document.
func Read(r io.Reader) (*Modules, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	modules := &Modules{}
	if err := decoder.Decode(modules); err != nil {
		return nil, fmt.Errorf("invalid module document: %w", err)
	}
	if modules.XMLName.Space != "" && modules.XMLName.Space != Namespace {
		return nil, fmt.Errorf("unsupported module document namespace %q", modules.XMLName.Space)
	}
	return modules, nil
}

// ReadFiles reads module documents and merges their modules in order.
func ReadFiles(paths ...string) (*Modules, error) {
	merged := &Modules{}
	for _, path := range paths {
		mods, err := readFile(path)
		if err != nil {
			return nil, err
		}
		merged.Module = append(merged.Module, mods.Module...)
	}
	return merged, nil
}

func readFile(path string) (*Modules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mods, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return mods, nil
}

// ClassFilePath returns the slash separated path of the class file of the
// class with the given binary name, relative to a classes directory.
func ClassFilePath(binaryName string) string {
	return strings.ReplaceAll(strings.TrimSpace(binaryName), ".", "/") + ".class"
}
