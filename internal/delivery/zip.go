package delivery

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ZipDir archives every regular file under srcDir into zipPath. Entry names
// are relative to srcDir and use forward slashes. It returns the entry
// names in walk order.
func ZipDir(srcDir, zipPath string) ([]string, error) {
	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, eris.Wrap(err, "zip: resolve source")
	}
	absZip, err := filepath.Abs(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: resolve archive path")
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: create archive")
	}
	defer out.Close() //nolint:errcheck

	zw := zip.NewWriter(out)
	var names []string

	walkErr := filepath.WalkDir(absSrc, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || path == absZip {
			return nil
		}

		rel, err := filepath.Rel(absSrc, path)
		if err != nil {
			return eris.Wrap(err, "zip: relative path")
		}
		name := filepath.ToSlash(rel)
		if !validEntryName(name) {
			return eris.Errorf("zip: illegal path %q", name)
		}

		if err := addZIPEntry(zw, path, name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	if walkErr != nil {
		zw.Close() //nolint:errcheck
		return names, eris.Wrapf(walkErr, "zip: archive %s", srcDir)
	}

	if err := zw.Close(); err != nil {
		return names, eris.Wrap(err, "zip: finalize archive")
	}
	return names, nil
}

func addZIPEntry(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return eris.Wrap(err, "zip: stat entry")
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return eris.Wrap(err, "zip: entry header")
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return eris.Wrap(err, "zip: create entry")
	}

	in, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "zip: open entry")
	}
	defer in.Close() //nolint:errcheck

	if _, err := io.Copy(w, in); err != nil {
		return eris.Wrap(err, "zip: write entry")
	}
	return nil
}

// ZipEntries lists the file entries of zipPath. An entry whose name is
// absolute or climbs out of the archive root is an error.
func ZipEntries(zipPath string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !validEntryName(f.Name) {
			return names, eris.Errorf("zip: illegal path %q in %s", f.Name, zipPath)
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func validEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
