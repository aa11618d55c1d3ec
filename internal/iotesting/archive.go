package iotesting

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/ulikunitz/xz"
)

// File is an entry of a test archive.
type File struct {
	Name string
	Body []byte
}

// ZipBytes builds a zip archive in memory.
func ZipBytes(t *testing.T, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatalf("Failed to create zip entry: %v", err)
		}
		if _, err = w.Write(f.Body); err != nil {
			t.Fatalf("Failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// TarBytes builds a tarball in memory. Compression can be "", "gz"
// or "xz".
func TarBytes(t *testing.T, compression string, files ...File) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch compression {
	case "gz":
		w = gzip.NewWriter(&buf)
	case "xz":
		w, err = xz.NewWriter(&buf)
		if err != nil {
			t.Fatalf("Failed to create xz writer: %v", err)
		}
	default:
		w = nopCloser{&buf}
	}

	tw := tar.NewWriter(w)
	for _, f := range files {
		hdr := &tar.Header{
			Name:     f.Name,
			Mode:     0644,
			Size:     int64(len(f.Body)),
			Typeflag: tar.TypeReg,
		}
		if err = tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		if _, err = tw.Write(f.Body); err != nil {
			t.Fatalf("Failed to write tar entry: %v", err)
		}
	}
	if err = tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Failed to close compressor: %v", err)
	}
	return buf.Bytes()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// ShpFeature is a polygon record of a test shapefile. The first ring of
// every part list is an outer ring.
type ShpFeature struct {
	Rings [][][2]float64
	Attrs []string
}

// WriteShapefile writes name.shp, name.shx and name.dbf to dir and
// returns the path to the .shp file.
func WriteShapefile(
	t *testing.T,
	dir, name string,
	fields []string,
	features []ShpFeature,
) string {
	t.Helper()
	path := filepath.Join(dir, name+".shp")
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("Failed to create shapefile: %v", err)
	}

	ff := make([]shp.Field, len(fields))
	for i, f := range fields {
		ff[i] = shp.StringField(f, 64)
	}
	if err = w.SetFields(ff); err != nil {
		t.Fatalf("Failed to set shapefile fields: %v", err)
	}

	for _, f := range features {
		parts := make([][]shp.Point, len(f.Rings))
		for i, ring := range f.Rings {
			for _, p := range ring {
				parts[i] = append(parts[i], shp.Point{X: p[0], Y: p[1]})
			}
		}
		poly := shp.Polygon(*shp.NewPolyLine(parts))
		row := w.Write(&poly)
		for i, v := range f.Attrs {
			if err = w.WriteAttribute(int(row), i, v); err != nil {
				t.Fatalf("Failed to write shapefile attribute: %v", err)
			}
		}
	}
	w.Close()
	return path
}

// ReadFiles reads files from dir into archive entries with names
// relative to dir.
func ReadFiles(t *testing.T, dir string, names ...string) []File {
	t.Helper()
	res := make([]File, len(names))
	for i, n := range names {
		bs, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", n, err)
		}
		res[i] = File{Name: n, Body: bs}
	}
	return res
}
