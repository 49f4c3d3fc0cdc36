package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bsbctl/internal/config"
	"github.com/danmuck/bsbctl/internal/logging"
	"github.com/danmuck/bsbctl/internal/protocol"
	"github.com/danmuck/bsbctl/internal/protocol/frame"
	"github.com/danmuck/bsbctl/internal/protocol/registry"
	"github.com/danmuck/bsbctl/internal/watch"
)

const defaultConfigPath = "bsbctl.toml"

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bsbctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}
	switch args[0] {
	case "decode":
		return cmdDecode(args[1:])
	case "encode":
		return cmdEncode(args[1:])
	case "fields":
		return cmdFields(args[1:])
	case "config":
		return cmdConfig(args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: bsbctl <command> [flags]

commands:
  decode   decode hex frames to field values, or follow a raw byte stream
  encode   build a frame for a field and print its hex form
  fields   list the known field registry
  config   init or validate the bsbctl config file
`)
}

// cmdDecode decodes one hex string from the arguments, or consumes stdin.
// With -follow stdin is treated as a raw byte stream and decoded as frames
// complete; otherwise stdin is hex text.
func cmdDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	follow := fs.Bool("follow", false, "read a raw byte stream from stdin until EOF")
	showFrames := fs.Bool("frames", false, "print frame headers alongside values")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *follow {
		return followStdin(*showFrames)
	}

	input := strings.Join(fs.Args(), "")
	if input == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		input = string(raw)
	}
	data, err := parseHex(input)
	if err != nil {
		return err
	}
	return decodeAll(data, *showFrames)
}

func followStdin(showFrames bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := watch.Follow(ctx, os.Stdin, func(ev watch.Event) {
		printEvent(ev, showFrames)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func decodeAll(data []byte, showFrames bool) error {
	rest := data
	decoded := 0
	for len(rest) > 0 {
		f, next, err := frame.Parse(rest)
		if err != nil {
			if errors.Is(err, frame.ErrIncomplete) && decoded > 0 {
				log.Warn().Int("trailing", len(rest)).Msg("trailing bytes are not a complete frame")
				return nil
			}
			return fmt.Errorf("decode: %w", err)
		}
		rest = next
		decoded++

		fv, err := protocol.DecodeFieldValue(f)
		printEvent(watch.Event{Frame: f, Value: fv, Err: err}, showFrames)
	}
	return nil
}

func printEvent(ev watch.Event, showFrames bool) {
	if showFrames {
		fmt.Printf("[%s %d->%d 0x%08X] ", ev.Frame.Type, ev.Frame.Source, ev.Frame.Dest, ev.Frame.FieldID)
	}
	if ev.Err != nil {
		fmt.Printf("field 0x%08X: %v\n", ev.Frame.FieldID, ev.Err)
		return
	}
	fmt.Println(ev.Value.String())
}

// cmdEncode builds a frame from a field name and value and prints its hex
// wire form. Without -value a get request is produced.
func cmdEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	field := fs.String("field", "", "field name from the registry")
	value := fs.String("value", "", "value in display form; omit for a get request")
	pktType := fs.String("type", "", "packet type: get|set|info (default get, or set when -value is given)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *field == "" {
		return fmt.Errorf("encode: -field is required")
	}

	cfg, err := loadConfig(*configPath, *configPath != defaultConfigPath)
	if err != nil {
		return err
	}

	desc, ok := registry.LookupName(*field)
	if !ok {
		return fmt.Errorf("encode: %w: %s", protocol.ErrUnknownField, *field)
	}

	pt, err := resolveType(*pktType, *value != "")
	if err != nil {
		return err
	}

	var f frame.Frame
	if *value == "" {
		if pt != frame.TypeGet {
			return fmt.Errorf("encode: -value is required for %s frames", pt)
		}
		f = frame.NewGet(cfg.DestAddr, cfg.SourceAddr, desc.ID)
	} else {
		v, err := protocol.ParseValue(*value, desc)
		if err != nil {
			return err
		}
		fv, err := protocol.NewFieldValue(desc.ID, v)
		if err != nil {
			return err
		}
		f, err = fv.Frame(cfg.DestAddr, cfg.SourceAddr, pt)
		if err != nil {
			return err
		}
	}

	fmt.Printf("% X\n", f.Serialize())
	return nil
}

func resolveType(raw string, haveValue bool) (frame.PacketType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		if haveValue {
			return frame.TypeSet, nil
		}
		return frame.TypeGet, nil
	case "get":
		return frame.TypeGet, nil
	case "set":
		return frame.TypeSet, nil
	case "info":
		return frame.TypeInfo, nil
	default:
		return 0, fmt.Errorf("encode: unknown packet type: %s", raw)
	}
}

// cmdFields prints the registry sorted by field id.
func cmdFields(args []string) error {
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROG\tID\tNAME\tTYPE\tPATH")
	for _, d := range registry.Fields() {
		typ := d.Type.String()
		if d.Divisor > 1 {
			typ = fmt.Sprintf("%s/%d", typ, d.Divisor)
		}
		fmt.Fprintf(w, "%d\t0x%08X\t%s\t%s\t%s\n", d.ProgNr, d.ID, d.Name, typ, d.Path)
	}
	return w.Flush()
}

func cmdConfig(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config: expected init or validate")
	}
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("config init", flag.ContinueOnError)
		output := fs.String("output", defaultConfigPath, "output path for the config template")
		force := fs.Bool("force", false, "overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := config.WriteTemplate(*output, *force); err != nil {
			return err
		}
		log.Info().Str("path", *output).Msg("wrote config template")
		return nil

	case "validate":
		fs := flag.NewFlagSet("config validate", flag.ContinueOnError)
		input := fs.String("input", defaultConfigPath, "config path to validate")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		cfg, err := loadConfig(*input, true)
		if err != nil {
			return err
		}
		log.Info().
			Str("path", *input).
			Uint8("source_addr", cfg.SourceAddr).
			Uint8("dest_addr", cfg.DestAddr).
			Msg("config valid")
		return nil

	default:
		return fmt.Errorf("config: unknown subcommand: %s", args[0])
	}
}

// parseHex strips whitespace and common separators before hex decoding, so
// captures pasted as "DC 80 42 ..." or "dc:80:42" both work.
func parseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', ':', ',':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return data, nil
}
