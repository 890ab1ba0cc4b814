// Command pngtool decodes PNG files from the command line: info prints
// header/metadata, decode writes raw pixels to a file, and icc
// extracts an embedded color profile, per SPEC_FULL.md §6.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/mixcode/pngicc"
	"github.com/mixcode/pngicc/iccprofile"
)

var log zerolog.Logger

func main() {
	verbose := pflag.BoolP("verbose", "v", false, "enable structured decode-trace logging")
	out := pflag.StringP("out", "o", "", "output path (decode/icc); a directory gets a generated filename")
	target := pflag.StringP("target", "t", "rgba8", "pixel target for decode: rgba8, rgb8, grayscale8, va8")
	pflag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	args := pflag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pngtool <decode|info|icc> <file.png> [flags]")
		os.Exit(2)
	}
	verb, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("cannot open input")
	}
	defer f.Close()

	switch verb {
	case "info":
		runInfo(f)
	case "decode":
		runDecode(f, *target, *out)
	case "icc":
		runICC(f, *out)
	default:
		fmt.Fprintf(os.Stderr, "unknown verb %q\n", verb)
		os.Exit(2)
	}
}

func runInfo(f *os.File) {
	img, err := pngicc.Decode(f)
	if err != nil {
		log.Fatal().Err(err).Msg("decode failed")
	}
	fmt.Printf("size: %dx%d\n", img.Width, img.Height)
	fmt.Printf("format: %s (interlaced=%v)\n", img.Format.Name, img.Interlaced)
	if img.Palette != nil {
		fmt.Printf("palette entries: %d\n", len(img.Palette))
	}
	if img.Metadata.Gamma != nil {
		fmt.Printf("gamma: %d/100000\n", *img.Metadata.Gamma)
	}
	if img.Metadata.ColorProfile != nil {
		fmt.Printf("icc profile: %s (%d bytes)\n", img.Metadata.ColorProfile.Name, len(img.Metadata.ColorProfile.Profile))
	}
	for _, e := range img.Metadata.TextEntries {
		fmt.Printf("text[%s]: %s = %.40s\n", e.Chunk, e.Keyword, e.Text)
	}
	log.Debug().Int("textEntries", len(img.Metadata.TextEntries)).Msg("decode complete")
}

func runDecode(f *os.File, target, out string) {
	img, err := pngicc.Decode(f)
	if err != nil {
		log.Fatal().Err(err).Msg("decode failed")
	}
	raw := encodeTarget(img, target)

	dest := out
	if dest == "" || isDir(dest) {
		name := uuid.New().String() + ".raw"
		if dest != "" {
			dest = dest + string(os.PathSeparator) + name
		} else {
			dest = name
		}
	}
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", dest).Msg("cannot write output")
	}
	log.Info().Str("path", dest).Int("bytes", len(raw)).Msg("wrote decoded pixels")
}

func runICC(f *os.File, out string) {
	profile, name, err := iccprofile.Extract(f)
	if err != nil {
		log.Fatal().Err(err).Msg("icc extraction failed")
	}
	if profile == nil {
		fmt.Fprintln(os.Stderr, "no embedded ICC profile")
		return
	}
	dest := out
	if dest == "" || isDir(dest) {
		base := name
		if base == "" {
			base = uuid.New().String()
		}
		fname := base + ".icc"
		if dest != "" {
			dest = dest + string(os.PathSeparator) + fname
		} else {
			dest = fname
		}
	}
	if err := os.WriteFile(dest, profile, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", dest).Msg("cannot write profile")
	}
	log.Info().Str("path", dest).Str("name", name).Int("bytes", len(profile)).Msg("wrote icc profile")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
