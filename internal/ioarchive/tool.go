package ioarchive

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Tool is an external program able to extract an archive kind.
type Tool struct {
	// Bin is the executable name looked up in PATH.
	Bin string

	// Args returns command line arguments to extract src into dest.
	Args func(src, dest string) []string
}

func sevenZipArgs(src, dest string) []string {
	return []string{"x", "-y", "-p-", "-o" + dest, src}
}

func defaultTools() map[Kind][]Tool {
	return map[Kind][]Tool{
		Rar: {
			{Bin: "unrar", Args: func(src, dest string) []string {
				return []string{"x", "-y", "-p-", src, dest + string(filepath.Separator)}
			}},
			{Bin: "unar", Args: func(src, dest string) []string {
				return []string{"-q", "-f", "-D", "-o", dest, src}
			}},
			{Bin: "7z", Args: sevenZipArgs},
		},
		SevenZip: {
			{Bin: "7z", Args: sevenZipArgs},
			{Bin: "7za", Args: sevenZipArgs},
			{Bin: "7zr", Args: sevenZipArgs},
		},
	}
}

// ToolNames returns the default external tools for a kind in the order
// they are tried.
func ToolNames(k Kind) []string {
	var res []string
	for _, t := range defaultTools()[k] {
		res = append(res, t.Bin)
	}
	return res
}

// findTool returns the first installed tool for a kind.
func (x *extractor) findTool(k Kind) (Tool, string, error) {
	var names []string
	for _, t := range x.tools[k] {
		names = append(names, t.Bin)
		if path, err := x.lookPath(t.Bin); err == nil {
			return t, path, nil
		}
	}
	return Tool{}, "", MissingExtractionToolError(k, names)
}

func extractWithTool(k Kind) handler {
	return func(ctx context.Context, x *extractor, src, dest string) error {
		tool, path, err := x.findTool(k)
		if err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, path, tool.Args(src, dest)...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("Extraction tool failed",
				"tool", tool.Bin, "archive", x.name,
				"output", string(out), "error", err)
			if needsPassword(out) {
				return PasswordProtectedArchiveError(x.name)
			}
			return CorruptedArchiveError(x.name,
				errors.New(lastLine(out)))
		}
		return x.account(dest)
	}
}

func needsPassword(out []byte) bool {
	s := bytes.ToLower(out)
	return bytes.Contains(s, []byte("password")) ||
		bytes.Contains(s, []byte("encrypted"))
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// account checks limits and unsafe entries after an external tool
// finished extraction.
func (x *extractor) account(dest string) error {
	return filepath.WalkDir(dest, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return ScratchDirError(err)
		}
		if de.Type()&os.ModeSymlink != 0 {
			return CorruptedArchiveError(x.name,
				errors.New("symbolic link in archive: "+de.Name()))
		}
		if !de.Type().IsRegular() {
			return nil
		}
		if err = x.add(); err != nil {
			return err
		}
		info, err := de.Info()
		if err != nil {
			return ScratchDirError(err)
		}
		x.bytes += info.Size()
		if x.bytes > x.maxBytes {
			return x.tooLarge()
		}
		return nil
	})
}
