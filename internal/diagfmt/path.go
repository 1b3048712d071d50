package diagfmt

import (
	"path/filepath"

	"highrust/internal/diag"
	"highrust/internal/source"
)

func formatPath(f *source.File, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return f.Path
		}
		p := f.Path
		if !filepath.IsAbs(p) && f.Flags&source.FileVirtual == 0 {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		cp := *f
		cp.Path = p
		return cp.DisplayPath(base)
	}
	return f.Path
}

// located reports whether sp points into fs. Load and write failures carry
// an empty span that does not name a source position.
func located(d *diag.Diagnostic, sp source.Span, fs *source.FileSet) bool {
	if fs == nil || int(sp.File) >= fs.Len() {
		return false
	}
	return d.Code < diag.IOLoadFileError || d.Code > diag.ProjConfigInvalid
}
