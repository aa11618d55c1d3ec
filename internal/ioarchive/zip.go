package ioarchive

import (
	"archive/zip"
	"context"
	"os"
)

// zipEncrypted is the general purpose flag bit of encrypted entries.
const zipEncrypted = 0x1

func extractZip(ctx context.Context, x *extractor, src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return CorruptedArchiveError(x.name, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err = ctx.Err(); err != nil {
			return err
		}
		if f.Flags&zipEncrypted != 0 {
			return PasswordProtectedArchiveError(x.name)
		}

		path, err := x.safeJoin(dest, f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		if mode.IsDir() {
			if err = os.MkdirAll(path, 0755); err != nil {
				return ScratchDirError(err)
			}
			continue
		}
		if !mode.IsRegular() {
			continue
		}

		if err = x.add(); err != nil {
			return err
		}
		if err = x.extractZipFile(f, path); err != nil {
			return err
		}
	}
	return nil
}

func (x *extractor) extractZipFile(f *zip.File, path string) error {
	rc, err := f.Open()
	if err != nil {
		return CorruptedArchiveError(x.name, err)
	}
	defer rc.Close()
	return x.copyLimited(rc, path)
}
