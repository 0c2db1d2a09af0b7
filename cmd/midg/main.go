package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/midg"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultDB = "midg.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func loadConfig(c *cli.Context) (Config, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return Config{}, cli.Exit(err, 1)
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg Config) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if cfg.verbose(c) {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func uintFlag(c *cli.Context, name string, limit uint) (uint, error) {
	v := c.Uint(name)
	if v > limit {
		return 0, cli.Exit(fmt.Sprintf("--%s must be at most %d", name, limit), 1)
	}
	return v, nil
}

type info struct {
	Path          string `json:"path"`
	Width         uint16 `json:"width"`
	Height        uint16 `json:"height"`
	Flags         string `json:"flags"`
	BytesPerPixel uint8  `json:"bytes_per_pixel"`
	MipmapCount   uint8  `json:"mipmap_count"`
	MipLevels     int    `json:"mip_levels"`
	UniqueColors  uint16 `json:"unique_colors"`
	Checksum      string `json:"checksum"`
	DataSize      uint64 `json:"data_size"`
	PayloadSize   int    `json:"payload_size"`
}

func check(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	invalid := 0
	for _, file := range c.Args().Slice() {
		ok, err := midg.Check(file)
		if err != nil {
			return cli.Exit(err, 2)
		}
		if ok {
			fmt.Fprintf(c.App.Writer, "%s: valid\n", file)
		} else {
			fmt.Fprintf(c.App.Writer, "%s: invalid\n", file)
			invalid++
		}
	}

	if invalid > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func inspect(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := midg.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	h := f.Header
	i := info{
		Path:          c.Args().First(),
		Width:         h.Width,
		Height:        h.Height,
		Flags:         h.Flags.String(),
		BytesPerPixel: h.BytesPerPixel(),
		MipmapCount:   h.MipmapCount,
		MipLevels:     midg.MipLevels(h.Width, h.Height),
		UniqueColors:  h.UniqueColors,
		Checksum:      fmt.Sprintf("%08X", h.Checksum),
		DataSize:      h.DataSize(),
		PayloadSize:   len(f.Payload()),
	}

	if c.Bool("json") {
		b, err := json.MarshalIndent(i, "", "  ")
		if err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Fprintln(c.App.Writer, string(b))
		return nil
	}

	fmt.Fprintf(c.App.Writer, "%s: %dx%d %s, %d bytes per pixel, %d mipmaps, %d colors, checksum %s, %d/%d bytes\n",
		i.Path, i.Width, i.Height, i.Flags, i.BytesPerPixel, i.MipmapCount, i.UniqueColors, i.Checksum, i.PayloadSize, i.DataSize)
	return nil
}

func size(c *cli.Context) error {
	bpp, err := uintFlag(c, "bpp", 0xffff)
	if err != nil {
		return err
	}
	if c.IsSet("flags") {
		flags, err := uintFlag(c, "flags", 0xff)
		if err != nil {
			return err
		}
		bpp = uint(midg.BytesPerPixel(midg.Flags(flags)))
	}
	if bpp == 0 {
		return cli.Exit("one of --bpp or --flags is required", 1)
	}
	w, err := uintFlag(c, "width", 0xffff)
	if err != nil {
		return err
	}
	h, err := uintFlag(c, "height", 0xffff)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, midg.MipChainSize(uint16(w), uint16(h), uint16(bpp)))
	return nil
}

func encode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	in, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer in.Close()

	m, _, err := image.Decode(in)
	if err != nil {
		return cli.Exit(err, 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	options := &midg.EncodeOptions{
		Channels:  midg.ChannelsAuto,
		MaxColors: cfg.maxColors(c),
	}
	if s := c.String("channels"); s != "" {
		ch, ok := midg.ParseChannels(s)
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown channels %q", s), 1)
		}
		options.Channels, options.Explicit = ch, true
	}
	if c.Bool("extended") {
		options.Markers |= midg.FlagExtendedHeader
	}

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer out.Close()

	if err := midg.Encode(out, m, options); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func export(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := midg.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	m, err := f.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer out.Close()

	if err := png.Encode(out, m); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	catalog, err := midg.NewCatalog(cfg.db(c))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer catalog.Close()

	s := midg.New(catalog, newLogger(c, cfg))
	s.Workers = cfg.workers(c)

	id, err := s.Scan(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	entries, err := catalog.Entries(id)
	if err != nil {
		return cli.Exit(err, 1)
	}
	valid := 0
	for _, e := range entries {
		if e.Valid {
			valid++
		}
	}
	fmt.Fprintf(c.App.Writer, "scan %s: %d containers, %d valid\n", id, len(entries), valid)
	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "midg"
	app.Usage = "MIDG image container utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MIDG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:  "config",
			Value: configPath(),
			Usage: "path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "check",
			Usage:     "Validate container headers",
			ArgsUsage: "FILE...",
			Action:    check,
		},
		{
			Name:      "info",
			Usage:     "Print container header fields",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print as JSON",
				},
			},
			Action: inspect,
		},
		{
			Name:  "size",
			Usage: "Print the size in bytes of a full mip chain",
			Flags: []cli.Flag{
				&cli.UintFlag{Name: "width", Required: true, Usage: "base width"},
				&cli.UintFlag{Name: "height", Required: true, Usage: "base height"},
				&cli.UintFlag{Name: "bpp", Usage: "bytes per pixel"},
				&cli.UintFlag{Name: "flags", Usage: "header flags to derive bytes per pixel from"},
			},
			Action: size,
		},
		{
			Name:      "encode",
			Usage:     "Convert a BMP, GIF, JPEG, PNG, TIFF or WebP image to a container",
			ArgsUsage: "IN OUT",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "channels", Usage: "alpha, luminosity, rgb or rgba"},
				&cli.IntFlag{Name: "max-colors", Usage: "quantize to at most this many colors"},
				&cli.BoolFlag{Name: "extended", Usage: "set the extended header flag"},
			},
			Action: encode,
		},
		{
			Name:      "export",
			Usage:     "Write the base level of a container as PNG",
			ArgsUsage: "IN OUT",
			Action:    export,
		},
		{
			Name:      "scan",
			Usage:     "Scan a directory tree and record containers in the catalog",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "workers", Value: 10, Usage: "files validated concurrently"},
			},
			Action: scan,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
