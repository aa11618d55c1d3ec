// Package ioarchive extracts uploaded archives into scoped scratch
// directories and finds geometry sources (shapefiles and GeoJSON files)
// inside of them.
package ioarchive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnaoi/pkg/geom"
)

// handler extracts archive src into dest directory.
type handler func(ctx context.Context, x *extractor, src, dest string) error

// Dispatcher detects archive kinds and routes them to format handlers.
// Handlers are set once in NewDispatcher, a Dispatcher is safe for
// concurrent use.
type Dispatcher struct {
	maxFiles int
	maxBytes int64
	tempDir  string
	handlers map[Kind]handler
	tools    map[Kind][]Tool
	lookPath func(string) (string, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// OptTempDir sets a parent directory for scratch directories.
// By default os.TempDir() is used.
func OptTempDir(dir string) Option {
	return func(d *Dispatcher) {
		d.tempDir = dir
	}
}

// OptTools replaces external extraction tools for a kind.
func OptTools(k Kind, tools ...Tool) Option {
	return func(d *Dispatcher) {
		d.tools[k] = tools
	}
}

// OptLookPath replaces exec.LookPath used to find external tools.
func OptLookPath(fn func(string) (string, error)) Option {
	return func(d *Dispatcher) {
		d.lookPath = fn
	}
}

// NewDispatcher creates a Dispatcher with limits from configuration.
func NewDispatcher(cfg config.ArchiveConfig, opts ...Option) *Dispatcher {
	res := &Dispatcher{
		maxFiles: cfg.MaxFiles,
		maxBytes: cfg.MaxBytes,
		tools:    defaultTools(),
		lookPath: exec.LookPath,
	}
	if res.maxFiles <= 0 {
		res.maxFiles = config.New().Archive.MaxFiles
	}
	if res.maxBytes <= 0 {
		res.maxBytes = config.New().Archive.MaxBytes
	}
	res.handlers = map[Kind]handler{
		Zip:      extractZip,
		Tar:      extractTar(plainReader),
		TarGz:    extractTar(gzipReader),
		TarBz2:   extractTar(bzip2Reader),
		TarXz:    extractTar(xzReader),
		Rar:      extractWithTool(Rar),
		SevenZip: extractWithTool(SevenZip),
		GeoJSON:  passThrough,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Extraction describes an extracted upload. It is valid only inside
// of the callback given to Dispatcher.With.
type Extraction struct {
	// Name is the declared name of the upload.
	Name string
	Kind Kind

	// Dir is the scratch directory with extracted files.
	Dir string

	Shapefiles []string
	GeoJSON    []string

	Files int
	Bytes int64
}

// Sources returns geometry sources in order of preference: shapefiles
// if any were found, GeoJSON files otherwise.
func (e *Extraction) Sources() []string {
	if len(e.Shapefiles) > 0 {
		return e.Shapefiles
	}
	return e.GeoJSON
}

// With extracts the upload r into a new scratch directory, finds
// geometry sources and calls fn. The scratch directory is removed when
// With returns, including the cases when fn fails or panics.
func (d *Dispatcher) With(
	ctx context.Context,
	r io.Reader,
	name string,
	fn func(*Extraction) error,
) error {
	scratch, err := os.MkdirTemp(d.tempDir, "gnaoi-*")
	if err != nil {
		return ScratchDirError(err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			slog.Warn("Cannot remove scratch directory",
				"dir", scratch, "error", err)
		}
	}()

	x := &extractor{
		name:     name,
		maxFiles: d.maxFiles,
		maxBytes: d.maxBytes,
		tools:    d.tools,
		lookPath: d.lookPath,
	}

	src := filepath.Join(scratch, "upload")
	if err = x.spool(r, src); err != nil {
		return err
	}

	kind, err := x.detect(src)
	if err != nil {
		return err
	}

	dest := filepath.Join(scratch, "data")
	if err = os.Mkdir(dest, 0755); err != nil {
		return ScratchDirError(err)
	}

	slog.Info("Extracting upload", "name", name, "kind", kind.String())
	if err = d.handlers[kind](ctx, x, src, dest); err != nil {
		return err
	}

	ext := &Extraction{
		Name:  name,
		Kind:  kind,
		Dir:   dest,
		Files: x.files,
		Bytes: x.bytes,
	}
	if err = findSources(dest, ext); err != nil {
		return err
	}
	if len(ext.Sources()) == 0 {
		return geom.NoValidGeometryError(name)
	}

	slog.Info("Upload extracted",
		"name", name,
		"files", ext.Files,
		"size", humanize.Bytes(uint64(ext.Bytes)),
		"shapefiles", len(ext.Shapefiles),
		"geojson", len(ext.GeoJSON),
	)
	return fn(ext)
}

// extractor carries limits and counters of one extraction.
type extractor struct {
	name     string
	maxFiles int
	maxBytes int64
	tools    map[Kind][]Tool
	lookPath func(string) (string, error)

	files int
	bytes int64
}

func (x *extractor) spool(r io.Reader, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return ScratchDirError(err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, x.maxBytes+1))
	if err != nil {
		return ScratchDirError(err)
	}
	if n > x.maxBytes {
		return x.tooLarge()
	}
	return nil
}

// detect reconciles declared and sniffed kinds of the spooled upload.
func (x *extractor) detect(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, ScratchDirError(err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, CorruptedArchiveError(x.name, err)
	}
	sniffed := Sniff(head[:n])
	declared := KindFromName(x.name)

	switch {
	case declared == Unknown && sniffed == Unknown:
		return Unknown, UnsupportedFormatError(x.name)
	case declared == Unknown:
		return sniffed, nil
	case declared != sniffed:
		return Unknown, CorruptedArchiveError(x.name,
			errors.New("content does not match "+declared.String()+" format"))
	}
	return declared, nil
}

// add registers one extracted file and checks limits.
func (x *extractor) add() error {
	x.files++
	if x.files > x.maxFiles {
		return ArchiveTooLargeError(x.name,
			humanize.Comma(int64(x.maxFiles))+" files")
	}
	return nil
}

func (x *extractor) tooLarge() error {
	return ArchiveTooLargeError(x.name, humanize.Bytes(uint64(x.maxBytes)))
}

// copyLimited copies r to path keeping total size under maxBytes.
func (x *extractor) copyLimited(r io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ScratchDirError(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return ScratchDirError(err)
	}
	defer f.Close()

	budget := x.maxBytes - x.bytes
	n, err := io.Copy(f, io.LimitReader(r, budget+1))
	x.bytes += n
	if err != nil {
		return CorruptedArchiveError(x.name, err)
	}
	if n > budget {
		return x.tooLarge()
	}
	return nil
}

// safeJoin joins entry name to dest and rejects paths escaping dest.
func (x *extractor) safeJoin(dest, entry string) (string, error) {
	entry = filepath.FromSlash(entry)
	if filepath.IsAbs(entry) || filepath.VolumeName(entry) != "" {
		return "", CorruptedArchiveError(x.name,
			errors.New("absolute path in archive: "+entry))
	}
	res := filepath.Join(dest, entry)
	rel, err := filepath.Rel(dest, res)
	if err != nil || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", CorruptedArchiveError(x.name,
			errors.New("path escapes extraction directory: "+entry))
	}
	return res, nil
}

func passThrough(_ context.Context, x *extractor, src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return ScratchDirError(err)
	}
	defer f.Close()

	name := filepath.Base(x.name)
	if KindFromName(name) != GeoJSON {
		name = "upload.geojson"
	}
	if err = x.add(); err != nil {
		return err
	}
	return x.copyLimited(f, filepath.Join(dest, name))
}

// findSources walks the extraction directory and collects shapefiles
// and GeoJSON files. Hidden files and macOS resource forks are ignored.
func findSources(dir string, ext *Extraction) error {
	err := filepath.WalkDir(dir, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := de.Name()
		if de.IsDir() {
			if base == "__MACOSX" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(base)) {
		case ".shp":
			ext.Shapefiles = append(ext.Shapefiles, path)
		case ".geojson", ".json":
			ext.GeoJSON = append(ext.GeoJSON, path)
		}
		return nil
	})
	if err != nil {
		return ScratchDirError(err)
	}
	slices.Sort(ext.Shapefiles)
	slices.Sort(ext.GeoJSON)
	return nil
}
