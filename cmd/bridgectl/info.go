package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-bridge/wasm"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the built artifact's imported and exported symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		out, _ := cmd.Flags().GetString("out")
		artifact, _ := cmd.Flags().GetString("artifact")
		path := filepath.Join(project, out, artifact)

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := wasm.ParseModule(data)
		if err != nil {
			return err
		}

		cmd.Printf("Artifact: %s (%d bytes)\n", path, len(data))

		namespaces := m.ImportNamespaces()
		keys := make([]string, 0, len(namespaces))
		for ns := range namespaces {
			keys = append(keys, ns)
		}
		sort.Strings(keys)

		cmd.Printf("\nRequired imports (%d):\n", len(m.FuncImports()))
		for _, ns := range keys {
			for _, name := range namespaces[ns] {
				cmd.Printf("  %s.%s\n", ns, name)
			}
		}

		exports := m.ExportedFuncs()
		cmd.Printf("\nExported functions (%d):\n", len(exports))
		for _, exp := range exports {
			line := exp.Name
			if sig, ok := m.FuncSignature(exp.Index); ok {
				line = describeSignature(exp.Name, sig)
			}
			cmd.Printf("  %s\n", line)
		}
		return nil
	},
}

func describeSignature(name string, sig wasm.FuncType) string {
	s := name + "("
	for i, p := range sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ")"
	if len(sig.Results) > 0 {
		s += " -> "
		for i, r := range sig.Results {
			if i > 0 {
				s += ", "
			}
			s += r.String()
		}
	}
	return s
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
