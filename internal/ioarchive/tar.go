package ioarchive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ulikunitz/xz"
)

// decompressor wraps a raw stream with a decompressing reader.
type decompressor func(io.Reader) (io.Reader, error)

func plainReader(r io.Reader) (io.Reader, error) {
	return r, nil
}

func gzipReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}

func bzip2Reader(r io.Reader) (io.Reader, error) {
	return bzip2.NewReader(r), nil
}

func xzReader(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}

func extractTar(dec decompressor) handler {
	return func(ctx context.Context, x *extractor, src, dest string) error {
		f, err := os.Open(src)
		if err != nil {
			return ScratchDirError(err)
		}
		defer f.Close()

		r, err := dec(f)
		if err != nil {
			return CorruptedArchiveError(x.name, err)
		}

		tr := tar.NewReader(r)
		for {
			if err = ctx.Err(); err != nil {
				return err
			}
			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return CorruptedArchiveError(x.name, err)
			}

			path, err := x.safeJoin(dest, hdr.Name)
			if err != nil {
				return err
			}

			switch hdr.Typeflag {
			case tar.TypeDir:
				if err = os.MkdirAll(path, 0755); err != nil {
					return ScratchDirError(err)
				}
			case tar.TypeReg:
				if err = x.add(); err != nil {
					return err
				}
				if err = x.copyLimited(tr, path); err != nil {
					return err
				}
			default:
				slog.Warn("Skipping non-regular archive entry",
					"archive", x.name, "entry", hdr.Name)
			}
		}
	}
}
