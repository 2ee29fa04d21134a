package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goopsie/sl2tools/internal/editor"
	"github.com/goopsie/sl2tools/internal/fsutil"
	"github.com/goopsie/sl2tools/pkg/archive"
	"github.com/goopsie/sl2tools/pkg/bnd4"
	"github.com/goopsie/sl2tools/pkg/character"
	"github.com/goopsie/sl2tools/pkg/memsave"
	"github.com/goopsie/sl2tools/pkg/slots"
)

type options struct {
	mode      string
	input     string
	output    string
	slot      int
	dir       string
	decrypted string
	stats     string
	verify    bool
	backup    bool
	force     bool

	editor editor.Editor
	out    io.Writer
}

func dispatch(opts options) error {
	switch opts.mode {
	case "list":
		return runList(opts)
	case "dump":
		return runDump(opts)
	case "edit":
		return runEdit(opts, opts.editor)
	case "export":
		return runExport(opts)
	case "import":
		data, err := os.ReadFile(opts.stats)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}
		return runEdit(opts, editor.FromJSON(data))
	case "unpack":
		return runUnpack(opts)
	case "pack":
		return runPack(opts)
	case "restore":
		return runRestore(opts)
	default:
		return fmt.Errorf("unknown mode: %s", opts.mode)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// openContainer reads the input container and checks entry digests when asked.
func openContainer(opts options) (*bnd4.Container, error) {
	c, err := bnd4.ReadFile(opts.input)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	if opts.verify {
		for i := range c.Len() {
			s, err := c.Sealed(i)
			if err != nil {
				return nil, err
			}
			if err := s.Verify(); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		}
	}
	return c, nil
}

func runList(opts options) error {
	c, err := openContainer(opts)
	if err != nil {
		return err
	}
	occ, err := slots.Load(c)
	if err != nil {
		return fmt.Errorf("load slot directory: %w", err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Slot", "Name", "Level", "Souls", "Humanity", "State", "Deaths").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, i := range occ.Indices() {
		payload, err := c.Open(i)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		s, err := character.Decode(payload)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		t.Row(
			strconv.Itoa(i),
			occ[i],
			strconv.FormatUint(uint64(s.Level), 10),
			strconv.FormatUint(uint64(s.Souls), 10),
			strconv.FormatUint(s.Humanity, 10),
			s.SoulState.String(),
			strconv.FormatUint(uint64(s.Deaths), 10),
		)
	}

	fmt.Fprintf(opts.out, "%s: %d entries, %d occupied slots\n", opts.input, c.Len(), len(occ))
	fmt.Fprintln(opts.out, t.Render())
	return nil
}

func runDump(opts options) error {
	c, err := openContainer(opts)
	if err != nil {
		return err
	}

	files := make(map[string][]byte, c.Len())
	for _, e := range c.Entries() {
		payload, err := c.Open(e.Index)
		if err != nil {
			return err
		}
		files[entryFileName(e)] = payload
	}

	if err := fsutil.WriteDir(opts.dir, files); err != nil {
		return fmt.Errorf("write entries: %w", err)
	}
	fmt.Fprintf(opts.out, "Dumped %d entries to %s\n", len(files), opts.dir)
	return nil
}

func entryFileName(e bnd4.Entry) string {
	if e.Name == "" {
		return fmt.Sprintf("entry%02d", e.Index)
	}
	return e.Name
}

// targetSlots resolves -slot against the directory. Editing an empty slot
// is an error; -slot -1 selects every occupied slot.
func targetSlots(occ slots.Occupancy, slot int) ([]int, error) {
	if slot < 0 {
		return occ.Indices(), nil
	}
	if _, ok := occ[slot]; !ok {
		return nil, fmt.Errorf("slot %d is empty", slot)
	}
	return []int{slot}, nil
}

func runEdit(opts options, ed editor.Editor) error {
	c, err := openContainer(opts)
	if err != nil {
		return err
	}
	occ, err := slots.Load(c)
	if err != nil {
		return fmt.Errorf("load slot directory: %w", err)
	}
	targets, err := targetSlots(occ, opts.slot)
	if err != nil {
		return err
	}

	edited := make(map[string][]byte, len(targets))
	for _, i := range targets {
		payload, err := c.Open(i)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		current, err := character.Decode(payload)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}

		next, err := ed.Edit(i, current)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		if next == current {
			fmt.Fprintf(opts.out, "Slot %d (%s): unchanged\n", i, occ[i])
			continue
		}

		payload, err = character.Encode(payload, next)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		if c, err = c.Reseal(i, payload); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		edited[memsave.SlotFileName(i)] = payload
		fmt.Fprintf(opts.out, "Slot %d (%s): updated\n", i, occ[i])
	}

	if len(edited) == 0 {
		fmt.Fprintln(opts.out, "Nothing to write")
		return nil
	}

	if opts.decrypted != "" {
		if err := fsutil.WriteDir(opts.decrypted, edited); err != nil {
			return fmt.Errorf("write decrypted slots: %w", err)
		}
	}
	if err := writeOutput(opts, c.Bytes()); err != nil {
		if opts.decrypted != "" {
			removeWritten(opts.decrypted, edited)
		}
		return err
	}

	fmt.Fprintf(opts.out, "Wrote %d edited slots to %s\n", len(edited), opts.output)
	return nil
}

func runExport(opts options) error {
	c, err := openContainer(opts)
	if err != nil {
		return err
	}
	occ, err := slots.Load(c)
	if err != nil {
		return fmt.Errorf("load slot directory: %w", err)
	}
	if _, err := targetSlots(occ, opts.slot); err != nil {
		return err
	}

	payload, err := c.Open(opts.slot)
	if err != nil {
		return fmt.Errorf("slot %d: %w", opts.slot, err)
	}
	s, err := character.Decode(payload)
	if err != nil {
		return fmt.Errorf("slot %d: %w", opts.slot, err)
	}
	data, err := editor.Export(s)
	if err != nil {
		return err
	}

	if err := fsutil.WriteFile(opts.output, data); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	fmt.Fprintf(opts.out, "Exported slot %d (%s) to %s\n", opts.slot, occ[opts.slot], opts.output)
	return nil
}

func runUnpack(opts options) error {
	if err := memsave.Standard.UnpackFile(opts.input, opts.dir); err != nil {
		return err
	}
	fmt.Fprintf(opts.out, "Unpacked %d slots to %s\n", memsave.Standard.Count, opts.dir)
	return nil
}

func runPack(opts options) error {
	slotData, err := memsave.Standard.ReadSlots(opts.dir)
	if err != nil {
		return err
	}
	save, err := memsave.Standard.Pack(slotData)
	if err != nil {
		return fmt.Errorf("pack %s: %w", opts.dir, err)
	}

	if err := writeOutput(opts, save); err != nil {
		return err
	}
	fmt.Fprintf(opts.out, "Packed %d slots into %s\n", len(slotData), opts.output)
	return nil
}

func runRestore(opts options) error {
	data, err := archive.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := fsutil.WriteFile(opts.output, data); err != nil {
		return err
	}
	fmt.Fprintf(opts.out, "Restored %d bytes to %s\n", len(data), opts.output)
	return nil
}

// replaceFile writes the final output of a mode.
var replaceFile = fsutil.WriteFile

// writeOutput replaces opts.output with data, snapshotting any existing
// file to <output>.bak first when backups are enabled. A failed write
// leaves the previous backup in place.
func writeOutput(opts options, data []byte) error {
	undo := func() {}
	if opts.backup {
		var err error
		if undo, err = writeBackup(opts); err != nil {
			return err
		}
	}

	if err := replaceFile(opts.output, data); err != nil {
		undo()
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeBackup snapshots the current output file. The returned func puts
// back whatever backup existed before.
func writeBackup(opts options) (func(), error) {
	existing, err := os.ReadFile(opts.output)
	switch {
	case errors.Is(err, fs.ErrNotExist), err == nil && len(existing) == 0:
		return func() {}, nil
	case err != nil:
		return nil, fmt.Errorf("read existing output: %w", err)
	}

	path := opts.output + ".bak"
	previous, prevErr := os.ReadFile(path)
	if err := archive.WriteFile(path, existing); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}
	fmt.Fprintf(opts.out, "Backup written to %s\n", path)

	return func() {
		if prevErr == nil {
			fsutil.WriteFile(path, previous)
			return
		}
		os.Remove(path)
	}, nil
}

// removeWritten deletes files written by WriteDir, and dir itself once empty.
func removeWritten(dir string, files map[string][]byte) {
	for name := range files {
		os.Remove(filepath.Join(dir, name))
	}
	os.Remove(dir)
}
