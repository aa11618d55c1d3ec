package ioarchive

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind is a type of an uploaded file.
type Kind int

const (
	Unknown Kind = iota
	Zip
	Tar
	TarGz
	TarBz2
	TarXz
	Rar
	SevenZip
	// GeoJSON is a plain document, it is passed through without
	// extraction.
	GeoJSON
)

var kindNames = map[Kind]string{
	Unknown:  "unknown",
	Zip:      "zip",
	Tar:      "tar",
	TarGz:    "tar.gz",
	TarBz2:   "tar.bz2",
	TarXz:    "tar.xz",
	Rar:      "rar",
	SevenZip: "7z",
	GeoJSON:  "geojson",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[Unknown]
}

// KindFromName returns a Kind declared by the file extension.
func KindFromName(name string) Kind {
	s := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasSuffix(s, ".tar.gz"), strings.HasSuffix(s, ".tgz"):
		return TarGz
	case strings.HasSuffix(s, ".tar.bz2"), strings.HasSuffix(s, ".tbz2"):
		return TarBz2
	case strings.HasSuffix(s, ".tar.xz"), strings.HasSuffix(s, ".txz"):
		return TarXz
	}
	switch filepath.Ext(s) {
	case ".zip":
		return Zip
	case ".tar":
		return Tar
	case ".rar":
		return Rar
	case ".7z":
		return SevenZip
	case ".geojson", ".json":
		return GeoJSON
	}
	return Unknown
}

var (
	magicZip      = []byte("PK\x03\x04")
	magicZipEmpty = []byte("PK\x05\x06")
	magicGzip     = []byte{0x1f, 0x8b}
	magicBzip2    = []byte("BZh")
	magicXz       = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magic7z       = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}
	magicRar      = []byte("Rar!\x1a\x07")
	magicTar      = []byte("ustar")
)

// Sniff detects a Kind from leading bytes of a file. Compressed streams
// are assumed to be tarballs.
func Sniff(head []byte) Kind {
	switch {
	case bytes.HasPrefix(head, magicZip), bytes.HasPrefix(head, magicZipEmpty):
		return Zip
	case bytes.HasPrefix(head, magicGzip):
		return TarGz
	case bytes.HasPrefix(head, magicBzip2):
		return TarBz2
	case bytes.HasPrefix(head, magicXz):
		return TarXz
	case bytes.HasPrefix(head, magic7z):
		return SevenZip
	case bytes.HasPrefix(head, magicRar):
		return Rar
	case len(head) >= 262 && bytes.Equal(head[257:262], magicTar):
		return Tar
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return GeoJSON
	}
	return Unknown
}
