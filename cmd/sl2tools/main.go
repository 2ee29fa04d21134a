// Package main provides a command-line tool for inspecting and editing
// Dark Souls .sl2 save containers.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goopsie/sl2tools/internal/config"
	"github.com/goopsie/sl2tools/internal/editor"
	"github.com/goopsie/sl2tools/internal/fsutil"
	"github.com/goopsie/sl2tools/pkg/saveerr"
)

var (
	mode       string
	inputPath  string
	outputPath string
	slotIndex  int
	slotsDir   string
	decrypted  string
	statsPath  string
	configPath string
	verify     bool
	plain      bool
	force      bool
	backup     bool
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: list, dump, edit, export, import, unpack, pack, restore")
	flag.StringVar(&inputPath, "input", "", "Input save container, monolithic save or backup")
	flag.StringVar(&outputPath, "output", "", "Output file (edit and import default to -input)")
	flag.IntVar(&slotIndex, "slot", -1, "Character slot 0-9 (-1 edits every occupied slot)")
	flag.StringVar(&slotsDir, "dir", "", "Directory for dumped entries or unpacked slot files")
	flag.StringVar(&decrypted, "decrypted", "", "Also write edited decrypted slot payloads to this directory")
	flag.StringVar(&statsPath, "stats", "", "JSON stats document for import mode")
	flag.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath+" if present)")
	flag.BoolVar(&verify, "verify", false, "Verify entry checksums before decrypting")
	flag.BoolVar(&plain, "plain", false, "Use line prompts instead of the terminal form")
	flag.BoolVar(&force, "force", false, "Allow non-empty output directory")
	flag.BoolVar(&backup, "backup", true, "Snapshot an existing output file to <output>.bak before overwriting")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process status: 2 for malformed input,
// 3 for cipher failures, 4 for filesystem errors and 1 for anything else.
func exitCode(err error) int {
	switch saveerr.Kind(err) {
	case saveerr.ErrFormat:
		return 2
	case saveerr.ErrCrypto:
		return 3
	case saveerr.ErrIO:
		return 4
	}
	return 1
}

func run() error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	if err := validateOptions(&opts); err != nil {
		flag.Usage()
		return err
	}

	if err := prepareOutputDir(opts); err != nil {
		return err
	}

	return dispatch(opts)
}

// loadOptions merges the config file with the flags given on the command line.
func loadOptions() (options, error) {
	path, required := config.DefaultPath, false
	if configPath != "" {
		path, required = configPath, true
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return options{}, err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := options{
		mode:      mode,
		input:     firstNonEmpty(inputPath, cfg.Input),
		output:    firstNonEmpty(outputPath, cfg.Output),
		slot:      slotIndex,
		dir:       firstNonEmpty(slotsDir, cfg.SlotsDir),
		decrypted: firstNonEmpty(decrypted, cfg.DecryptedDir),
		stats:     statsPath,
		verify:    cfg.VerifyChecksum,
		backup:    cfg.Backup,
		force:     force,
		out:       os.Stdout,
	}
	if set["verify"] {
		opts.verify = verify
	}
	if set["backup"] {
		opts.backup = backup
	}

	if plain || cfg.Editor == "plain" {
		opts.editor = editor.NewPrompt(os.Stdin, os.Stdout)
	} else {
		opts.editor = editor.Form{}
	}

	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func validateOptions(opts *options) error {
	if opts.mode == "" {
		return fmt.Errorf("mode is required")
	}
	if opts.slot < -1 || opts.slot > 9 {
		return fmt.Errorf("slot must be between -1 and 9, got %d", opts.slot)
	}

	switch opts.mode {
	case "list":
		if opts.input == "" {
			return fmt.Errorf("list mode requires -input")
		}
	case "dump", "unpack":
		if opts.input == "" || opts.dir == "" {
			return fmt.Errorf("%s mode requires -input and -dir", opts.mode)
		}
	case "edit", "import":
		if opts.input == "" {
			return fmt.Errorf("%s mode requires -input", opts.mode)
		}
		if opts.mode == "import" && opts.stats == "" {
			return fmt.Errorf("import mode requires -stats")
		}
		if opts.output == "" {
			opts.output = opts.input
		}
	case "export":
		if opts.input == "" || opts.output == "" || opts.slot < 0 {
			return fmt.Errorf("export mode requires -input, -output and -slot")
		}
	case "pack":
		if opts.dir == "" || opts.output == "" {
			return fmt.Errorf("pack mode requires -dir and -output")
		}
	case "restore":
		if opts.input == "" || opts.output == "" {
			return fmt.Errorf("restore mode requires -input and -output")
		}
	default:
		return fmt.Errorf("mode must be one of list, dump, edit, export, import, unpack, pack, restore")
	}

	return nil
}

// prepareOutputDir refuses to write entry or slot files into a directory
// that already holds something, unless -force is given. Missing
// directories are created by the write itself.
func prepareOutputDir(opts options) error {
	var dirs []string
	switch opts.mode {
	case "dump", "unpack":
		dirs = append(dirs, opts.dir)
	case "edit", "import":
		if opts.decrypted != "" {
			dirs = append(dirs, opts.decrypted)
		}
	}

	if opts.force {
		return nil
	}
	for _, dir := range dirs {
		empty, err := fsutil.IsDirEmpty(dir)
		if err != nil {
			return fmt.Errorf("check output directory: %w", err)
		}
		if !empty {
			return fmt.Errorf("output directory %s is not empty (use -force to override)", dir)
		}
	}

	return nil
}
