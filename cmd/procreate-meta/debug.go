package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AOShei/procreate-meta/pkg/container"
	"github.com/AOShei/procreate-meta/pkg/keyedarchive"
	"github.com/AOShei/procreate-meta/pkg/loader"
	"github.com/AOShei/procreate-meta/pkg/plist"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file.procreate>",
	Short: "Dump the raw archive structure of a .procreate file",
	Long: `debug prints a human-readable dump of a .procreate container: the zip
entry listing, the archive's top-level entries, and every key of the root
record with a short value summary. Useful when a file from a new Procreate
release stops yielding a field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDebug(cmd.OutOrStdout(), args[0])
	},
}

func runDebug(w io.Writer, path string) error {
	if err := loader.CheckInput(path); err != nil {
		return err
	}
	c, err := container.Open(path)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintf(w, "container: %s\n", c.Path())
	for _, e := range c.Entries() {
		fmt.Fprintf(w, "  %-40s %10d  %s\n", e.Name, e.Size, e.Modified.UTC().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "  Metadata.plist present: %v\n\n", c.Has("Metadata.plist"))

	data, err := c.ReadEntry(container.ArchiveEntry)
	if err != nil {
		return err
	}
	arch, err := keyedarchive.Open(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "archive: %d objects\n", len(arch.Objects()))
	top := arch.Top()
	for _, k := range top.Keys() {
		v, _ := top.Get(k)
		fmt.Fprintf(w, "  $top.%s = %s\n", k, summarize(v))
	}

	root, err := arch.Root()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nroot record: %d keys\n", root.Len())
	for _, k := range root.Keys() {
		v, _ := root.Get(k)
		mark := "  "
		if isDateKey(k) {
			mark = "* "
		}
		fmt.Fprintf(w, "%s%-45s %s\n", mark, k, summarize(v))
		if _, ok := keyedarchive.UID(v); ok {
			fmt.Fprintf(w, "  %-45s -> %s\n", "", summarize(arch.Resolve(v)))
		}
	}
	fmt.Fprintln(w, "\n(* date-related key)")
	return nil
}

// isDateKey flags keys worth a second look when timestamps go missing.
func isDateKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "date") || strings.Contains(k, "time")
}

// summarize renders a one-line description of an archive value.
func summarize(obj plist.Object) string {
	switch v := obj.(type) {
	case nil:
		return "<nil>"
	case plist.Null:
		return "null"
	case plist.Boolean:
		return fmt.Sprintf("bool %v", bool(v))
	case plist.Integer:
		return fmt.Sprintf("int %d", int64(v))
	case plist.Real:
		return fmt.Sprintf("real %g", float64(v))
	case plist.Date:
		return fmt.Sprintf("date %g (seconds since 2001-01-01)", float64(v))
	case plist.String:
		s := string(v)
		if len(s) > 60 {
			s = s[:57] + "..."
		}
		return fmt.Sprintf("string %q", s)
	case plist.Data:
		return fmt.Sprintf("data (%d bytes)", len(v))
	case plist.UID:
		return fmt.Sprintf("ref #%d", uint64(v))
	case plist.Array:
		return fmt.Sprintf("array (%d items)", len(v))
	case *plist.Dictionary:
		keys := v.Keys()
		if len(keys) > 4 {
			keys = append(keys[:4:4], "...")
		}
		return fmt.Sprintf("dict (%d keys: %s)", v.Len(), strings.Join(keys, ", "))
	default:
		return fmt.Sprintf("%T", obj)
	}
}
