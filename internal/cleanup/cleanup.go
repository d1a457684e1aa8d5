// Package cleanup removes the template's own documentation and examples from a
// project created from it.
package cleanup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Files are the template documents removed by Run.
var Files = []string{
	"BOILERPLATE.md",
	"TEMPLATE_USAGE.md",
	"SETUP.md",
	"AI_PROJECT_SETUP_GUIDE.md",
	"AI_EFFICIENCY_IMPROVEMENTS.md",
}

// Dirs are the template folders removed by Run.
var Dirs = []string{
	"wiki",
	"exported_docs",
	"examples",
}

// Result lists what Run did with each entry, by name relative to the root.
type Result struct {
	Removed []string
	Missing []string
	Failed  map[string]error
}

// Run removes Files and Dirs below root and reports progress to out.
// Missing entries and per-entry failures are reported and skipped; only an
// unusable root is returned as an error.
func Run(root string, out io.Writer) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project directory %s is not a directory", root)
	}

	res := &Result{Failed: make(map[string]error)}

	fmt.Fprintln(out, "🧹 Cleaning up boilerplate files...")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Removing documentation files:")
	for _, name := range Files {
		res.remove(root, name, name, out)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Removing folders:")
	for _, name := range Dirs {
		res.remove(root, name, name+"/", out)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✨ Cleanup complete!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "📝 Next steps:")
	fmt.Fprintln(out, "   1. Update README.md with your project information")
	fmt.Fprintln(out, "   2. Update the home page title in internal/handlers")
	fmt.Fprintln(out, "   3. Customize your project as needed")

	return res, nil
}

func (res *Result) remove(root, name, label string, out io.Writer) {
	path := filepath.Join(root, name)

	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		res.Missing = append(res.Missing, name)
		fmt.Fprintf(out, "⚠️  Not found (already removed): %s\n", label)
		return
	}

	if err := os.RemoveAll(path); err != nil {
		res.Failed[name] = err
		fmt.Fprintf(out, "❌ Error removing %s: %v\n", label, err)
		return
	}

	res.Removed = append(res.Removed, name)
	fmt.Fprintf(out, "✅ Removed: %s\n", label)
}
