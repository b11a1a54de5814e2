package bindgen

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/wasm"
)

// Options controls generated output.
type Options struct {
	// Package is the generated package name. Defaults to "enginebind".
	Package string

	// ArtifactName is recorded as a constant in the output. Defaults to
	// "engine_bg.wasm".
	ArtifactName string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "enginebind"
	}
	if o.ArtifactName == "" {
		o.ArtifactName = "engine_bg.wasm"
	}
	return o
}

// Generate renders the binding surface for the given artifact bytes.
func Generate(artifact []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	m, err := wasm.ParseModule(artifact)
	if err != nil {
		return nil, errors.Validation("binding generation needs a well-formed artifact", err)
	}

	var b strings.Builder
	b.WriteString("// Code generated by bridgectl bindgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	fmt.Fprintf(&b, "// ArtifactName is the filename the loader resolves next to its\n// install directory.\nconst ArtifactName = %q\n", opts.ArtifactName)

	writeExports(&b, m)
	writeImports(&b, m)

	return []byte(b.String()), nil
}

// GenerateFile reads the artifact at artifactPath and writes the
// binding surface to outPath.
func GenerateFile(artifactPath, outPath string, opts Options) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return errors.IO(artifactPath, err)
	}
	generated, err := Generate(data, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, generated, 0o644); err != nil {
		return errors.IO(outPath, err)
	}
	return nil
}

func writeExports(b *strings.Builder, m *wasm.Module) {
	exports := m.ExportedFuncs()
	if len(exports) == 0 {
		return
	}

	b.WriteString("\n// Exported function symbols.\nconst (\n")
	used := make(map[string]int)
	for _, exp := range exports {
		ident := "Export" + goIdent(exp.Name, used)
		if sig, ok := m.FuncSignature(exp.Index); ok {
			fmt.Fprintf(b, "\t// %s\n", describe(exp.Name, sig))
		}
		fmt.Fprintf(b, "\t%s = %q\n", ident, exp.Name)
	}
	b.WriteString(")\n")
}

func writeImports(b *strings.Builder, m *wasm.Module) {
	namespaces := m.ImportNamespaces()
	if len(namespaces) == 0 {
		return
	}

	keys := make([]string, 0, len(namespaces))
	for ns := range namespaces {
		keys = append(keys, ns)
	}
	sort.Strings(keys)

	b.WriteString("\n// RequiredImports lists the symbols the artifact declares as\n// required, by namespace. The import table must cover every entry\n// before instantiation.\nvar RequiredImports = map[string][]string{\n")
	for _, ns := range keys {
		fmt.Fprintf(b, "\t%q: {", ns)
		for i, name := range namespaces[ns] {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q", name)
		}
		b.WriteString("},\n")
	}
	b.WriteString("}\n")
}

// describe renders a signature like "parse(i32, i32) -> i32".
func describe(name string, sig wasm.FuncType) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if len(sig.Results) > 0 {
		b.WriteString(" -> ")
		for i, r := range sig.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
	}
	return b.String()
}

// goIdent mangles a wasm symbol into an exported Go identifier and
// keeps generated names unique.
func goIdent(symbol string, used map[string]int) string {
	var b strings.Builder
	upper := true
	for _, r := range symbol {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ':
			upper = true
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('N')
			}
			b.WriteRune(r)
			upper = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if upper {
				b.WriteRune(toUpper(r))
				upper = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	ident := b.String()
	if ident == "" {
		ident = "Symbol"
	}

	used[ident]++
	if n := used[ident]; n > 1 {
		return fmt.Sprintf("%s%d", ident, n)
	}
	return ident
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
