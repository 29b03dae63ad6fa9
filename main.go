package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/murkmap/chunker/bedrock"
	"github.com/murkmap/chunker/export"
	"github.com/murkmap/chunker/scan"
)

const banner = `
  __  __            _    __  __
 |  \/  |_  _ _ _ _| |__|  \/  |__ _ _ __
 | |\/| | || | '_| / /| |\/| / _' | '_ \
 |_|  |_|\_,_|_| |_\_\|_|  |_\__,_| .__/
                    chunker        |_|`

const (
	modeCSV    = "csv"
	modeBinary = "binary"
)

var defaultOutputDirs = map[string]string{
	modeCSV:    "./csvs",
	modeBinary: "./chunk_binary_data",
}

// scanFlags are accepted both before and after the command name.
func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Value: "./chunker.json", Usage: "scan bounds (JSON or YAML)"},
		&cli.StringFlag{Name: "db", Value: "./db", Usage: "world folder holding level.dat and the LevelDB db/ directory"},
		&cli.BoolFlag{Name: "strict", Usage: "abort on blocks whose name cannot be resolved instead of skipping them"},
		&cli.BoolFlag{Name: "verbose", Usage: "log every probed sub-chunk"},
		&cli.StringFlag{Name: "log-file", Usage: "also write logs to a rotating file"},
	}
}

func scanCommand(mode, usage string) *cli.Command {
	return &cli.Command{
		Name:  mode,
		Usage: usage,
		Flags: append(scanFlags(),
			&cli.StringFlag{Name: "out", Value: defaultOutputDirs[mode], Usage: "output directory"},
		),
		Action: func(c *cli.Context) error {
			return runScan(c, mode)
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chunker",
		Usage: "extracts non-air blocks from a Bedrock world into per-chunk files",
		Flags: scanFlags(),
		Action: func(c *cli.Context) error {
			return runScan(c, modeCSV)
		},
		Commands: []*cli.Command{
			scanCommand(modeCSV, "write one CSV file per chunk column"),
			scanCommand(modeBinary, "write one zstd-compressed binary file per chunk column"),
			{
				Name:      "dump",
				Usage:     "print binary chunk files as CSV lines",
				ArgsUsage: "FILE...",
				Action:    dump,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// flagContext returns the nearest context in which name was given explicitly, so a flag set before
// the command name is not shadowed by the command's own default.
func flagContext(c *cli.Context, name string) *cli.Context {
	for _, lc := range c.Lineage() {
		if lc.IsSet(name) {
			return lc
		}
	}
	return c
}

func runScan(c *cli.Context, mode string) error {
	log, logCloser := newLogger(flagContext(c, "verbose").Bool("verbose"), flagContext(c, "log-file").String("log-file"))
	defer logCloser.Close()

	cfg, err := LoadConfig(flagContext(c, "config").String("config"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = defaultOutputDirs[mode]
	}
	if err = os.MkdirAll(out, 0755); err != nil {
		return err
	}

	log.Info(banner)
	log.Infof("loaded config, scanning range: %d,%d", cfg.ScanLimitX, cfg.ScanLimitZ)

	world, err := bedrock.Open(flagContext(c, "db").String("db"), log)
	if err != nil {
		return err
	}
	defer world.Close()

	var exporter scan.Exporter
	switch mode {
	case modeBinary:
		exporter = export.Binary{Dir: out, Log: log}
	default:
		exporter = export.CSV{Dir: out, Log: log}
	}

	driver := &scan.Driver{
		World:     world,
		Extractor: scan.Extractor{Strict: flagContext(c, "strict").Bool("strict"), Log: log},
		Exporter:  exporter,
		Log:       log,
	}
	sum, err := driver.Run(cfg.Bounds())
	log.WithFields(logrus.Fields{
		"columns":    sum.Columns,
		"populated":  sum.Populated,
		"sub_chunks": sum.SubChunks,
		"records":    sum.Records,
		"files":      sum.Files,
	}).Info("scan finished")
	return err
}

func dump(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need at least one binary chunk file")
	}
	for _, path := range c.Args().Slice() {
		if err := dumpFile(path); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	col, err := export.ReadBinary(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return export.WriteCSV(os.Stdout, col.Records)
}
