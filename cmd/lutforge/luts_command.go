package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lutforge/internal/cube"
)

func newLutsCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "luts",
		Short: "List the LUTs available in the configured library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			paths, err := collectCubePaths(cfg.Paths.LUTDir)
			if err != nil {
				return err
			}

			classifier := cube.FilenameClassifier{}
			filter := cube.Category(strings.ToLower(strings.TrimSpace(category)))

			rows := make([][]string, 0, len(paths))
			for _, path := range paths {
				cat := classifier.Classify(path)
				if filter != "" && cat != filter {
					continue
				}
				dimension := "-"
				kind := "3D"
				if asset, err := cube.ParseFile(path); err == nil {
					dimension = fmt.Sprintf("%d", asset.Cube.Dimension)
					if asset.OneDimensional {
						kind = "1D"
					}
				} else {
					kind = "invalid"
				}
				rows = append(rows, []string{
					filepath.Base(path),
					string(cat),
					kind,
					dimension,
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No LUTs found in %s\n", cfg.Paths.LUTDir)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Category", "Type", "Size"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show LUTs in this category")
	return cmd
}

func collectCubePaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), cube.Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan LUT directory %q: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
