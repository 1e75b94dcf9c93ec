// Command qrgen encodes text from the command line or standard input
// as a QR code. Output is PNG, JPEG, SVG or PDF when writing to a
// file, and Unicode half-block art when standard output is a
// terminal.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/qrforge/go-qrcode"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/encoding/charmap"
)

var opts = struct {
	level      string
	minVersion int
	maxVersion int
	mask       int
	noBoost    bool
	eci        int
	latin1     bool
	out        string
	size       int
	border     int
	help       bool
}{
	level:      "M",
	minVersion: qrcode.MinVersion,
	maxVersion: qrcode.MaxVersion,
	mask:       -1,
	eci:        -1,
	size:       -8,
	border:     4,
}

func init() {
	getopt.FlagLong(&opts.level, "level", 'L', "error correction level: L, M, Q or H")
	getopt.FlagLong(&opts.minVersion, "min-version", 'v', "minimum version")
	getopt.FlagLong(&opts.maxVersion, "max-version", 'V', "maximum version")
	getopt.FlagLong(&opts.mask, "mask", 'm', "mask pattern 0-7, or -1 for automatic")
	getopt.FlagLong(&opts.noBoost, "no-boost", 'b', "do not raise the level when capacity allows")
	getopt.FlagLong(&opts.eci, "eci", 'e', "prepend an ECI segment with this assignment value")
	getopt.FlagLong(&opts.latin1, "latin1", 'l', "encode input as ISO 8859-1 bytes")
	getopt.FlagLong(&opts.out, "output", 'o', "output file; format chosen by extension")
	getopt.FlagLong(&opts.size, "size", 's', "image size in pixels; negative means pixels per module")
	getopt.FlagLong(&opts.border, "border", 'B', "quiet zone width in modules")
	getopt.FlagLong(&opts.help, "help", 'h', "show this help")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("qrgen: ")

	getopt.Parse()

	if opts.help {
		getopt.PrintUsage(os.Stdout)
		return
	}

	qr, err := encode(readInput())
	if err != nil {
		log.Fatal(err)
	}

	qr.Margin = opts.border

	if err := emit(qr); err != nil {
		log.Fatal(err)
	}
}

func readInput() string {
	if args := getopt.Args(); len(args) > 0 {
		return strings.Join(args, " ")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}

	return strings.TrimSuffix(string(data), "\n")
}

func encode(text string) (*qrcode.QRCode, error) {
	level, err := parseLevel(opts.level)
	if err != nil {
		return nil, err
	}

	var segs []qrcode.Segment

	if opts.eci >= 0 {
		seg, err := qrcode.MakeECI(opts.eci)
		if err != nil {
			return nil, err
		}

		segs = append(segs, seg)
	}

	if opts.latin1 {
		// ISO 8859-1 halves the byte count for non-ASCII Latin text
		// compared to UTF-8. Decoders default to it for byte mode.
		encoded, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return nil, fmt.Errorf("input is not Latin-1 encodable: %w", err)
		}

		seg, err := qrcode.MakeBytes([]byte(encoded))
		if err != nil {
			return nil, err
		}

		segs = append(segs, seg)
	} else {
		more, err := qrcode.MakeSegments(text)
		if err != nil {
			return nil, err
		}

		segs = append(segs, more...)
	}

	return qrcode.EncodeSegmentsAdvanced(segs, level, opts.minVersion, opts.maxVersion, opts.mask, !opts.noBoost)
}

func parseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(s) {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.Quartile, nil
	case "H":
		return qrcode.High, nil
	}

	return 0, fmt.Errorf("unknown level %q", s)
}

func emit(qr *qrcode.QRCode) error {
	if opts.out != "" {
		return writeFile(qr, opts.out)
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		printArt(os.Stdout, qr)
		return nil
	}

	data, err := qr.PNG(opts.size)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)

	return err
}

func writeFile(qr *qrcode.QRCode, name string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		data, err = qr.PNG(opts.size)
	case ".jpg", ".jpeg":
		data, err = qr.JPEG(opts.size)
	case ".svg":
		data, err = qr.SVG(opts.size)
	case ".pdf":
		data, err = qr.PDF(opts.size)
	default:
		err = fmt.Errorf("unknown output format %q", filepath.Ext(name))
	}

	if err != nil {
		return err
	}

	return os.WriteFile(name, data, 0o644)
}

// printArt writes the symbol as half-block characters, two module
// rows per text line.
func printArt(w io.Writer, qr *qrcode.QRCode) {
	border := qr.Margin
	size := qr.Size()

	for y := -border; y < size+border; y += 2 {
		for x := -border; x < size+border; x++ {
			top := qr.Module(x, y)
			bottom := y+1 < size+border && qr.Module(x, y+1)

			switch {
			case top && bottom:
				fmt.Fprint(w, "█")
			case top:
				fmt.Fprint(w, "▀")
			case bottom:
				fmt.Fprint(w, "▄")
			default:
				fmt.Fprint(w, " ")
			}
		}

		fmt.Fprintln(w)
	}
}
