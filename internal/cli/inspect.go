package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"navigator/config"
	"navigator/internal/adapter/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show metadata of the current index",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	path := config.IndexDBPath(GetRootDir())

	a, err := store.NewBoltStore().Load(path)
	if err != nil {
		return err
	}
	m := a.Manifest

	sources := make(map[string]int)
	for _, f := range a.Fragments {
		sources[f.Source]++
	}

	fmt.Println(headerStyle.Render("Index"))
	fmt.Printf("  Path:        %s\n", path)
	fmt.Printf("  Schema:      v%d\n", m.SchemaVersion)
	fmt.Printf("  Model:       %s\n", m.Model)
	fmt.Printf("  Dimension:   %d\n", m.Dimension)
	fmt.Printf("  Documents:   %d\n", m.Documents)
	fmt.Printf("  Fragments:   %d\n", m.Fragments)
	fmt.Printf("  Built:       %s\n", m.BuiltAt.Local().Format(time.DateTime))

	if hash := store.ComputeConfigHash(cfg); hash != m.ConfigHash {
		fmt.Println(degradedStyle.Render("  Config has changed since this index was built; re-run ingest."))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Fragments per source"))
	srcs := make([]string, 0, len(sources))
	for src := range sources {
		srcs = append(srcs, src)
	}
	slices.Sort(srcs)
	for _, src := range srcs {
		fmt.Printf("  %-40s %d\n", src, sources[src])
	}
	return nil
}
