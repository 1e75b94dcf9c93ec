package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/signintech/gopdf"

	svgo "github.com/ajstarks/svgo"
)

// bitmap returns the module matrix surrounded by the quiet zone.
func (q *QRCode) bitmap() [][]bool {
	margin := q.margin()
	n := q.size + margin*2

	grid := make([][]bool, n)
	for i := range grid {
		grid[i] = make([]bool, n)
	}

	for y := 0; y < q.size; y++ {
		for x := 0; x < q.size; x++ {
			grid[y+margin][x+margin] = q.modules[y][x]
		}
	}

	return grid
}

func (q *QRCode) margin() int {
	if q.Margin < 0 {
		return 0
	}

	return q.Margin
}

func (q *QRCode) image(size int) image.Image {
	// Minimum pixels (both width and height) required.
	realSize := q.size + q.margin()*2

	// Variable size support.
	if size < 0 {
		size = size * -1 * realSize
	}

	// Actual pixels available to draw the symbol. Automatically increase the
	// image size if it's not large enough.
	if size < realSize {
		size = realSize
	}

	// Output image.
	rect := image.Rectangle{Min: image.Point{}, Max: image.Point{X: size, Y: size}}

	// Saves a few bytes to have them in this order.
	p := color.Palette([]color.Color{q.BackgroundColor, q.ForegroundColor})
	img := image.NewPaletted(rect, p)

	bitmap := q.bitmap()

	// Map each image pixel to the nearest QR code module.
	modulesPerPixel := float64(realSize) / float64(size)

	for y := 0; y < size; y++ {
		y2 := int(float64(y) * modulesPerPixel)

		for x := 0; x < size; x++ {
			x2 := int(float64(x) * modulesPerPixel)

			if bitmap[y2][x2] {
				img.Set(x, y, q.ForegroundColor)
			}
		}
	}

	return img
}

func (q *QRCode) PNG(size int) ([]byte, error) {
	encoder := png.Encoder{CompressionLevel: png.BestCompression}

	var b bytes.Buffer

	if err := encoder.Encode(&b, q.image(size)); err != nil {
		return nil, err
	}

	bts := b.Bytes()

	if q.Base64 {
		bts = []byte(fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(bts)))
	}

	return bts, nil
}

func (q *QRCode) JPEG(size int) ([]byte, error) {
	var b bytes.Buffer

	if err := jpeg.Encode(&b, q.image(size), &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		return nil, err
	}

	bts := b.Bytes()

	if q.Base64 {
		bts = []byte(fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(bts)))
	}

	return bts, nil
}

func (q *QRCode) PDF(size int) ([]byte, error) {
	img := q.image(size)

	var b bytes.Buffer

	pdf := gopdf.GoPdf{}

	rect := gopdf.Rect{W: float64(size), H: float64(size)}

	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: rect})
	pdf.AddPage()

	if err := pdf.ImageFrom(img, 0, 0, &rect); err != nil {
		return nil, err
	}

	if err := pdf.Write(&b); err != nil {
		return nil, err
	}

	bts := b.Bytes()

	if q.Base64 {
		bts = []byte(fmt.Sprintf("data:application/pdf;base64,%s", base64.StdEncoding.EncodeToString(bts)))
	}

	return bts, nil
}

func (q *QRCode) SVG(size int) ([]byte, error) {
	var b bytes.Buffer

	bgR, bgG, bgB, bgA := q.BackgroundColor.RGBA()
	bgStyle := fmt.Sprintf("fill: rgb(%d, %d, %d); fill-opacity: %.2f",
		bgR>>8, bgG>>8, bgB>>8, float64(bgA>>8)/255,
	)

	fgR, fgG, fgB, fgA := q.ForegroundColor.RGBA()
	fgStyle := fmt.Sprintf("fill: rgb(%d, %d, %d); fill-opacity: %.2f",
		fgR>>8, fgG>>8, fgB>>8, float64(fgA>>8)/255,
	)

	realSize := q.size + q.margin()*2

	scale := math.Floor(float64(size)/float64(realSize)) + float64(1)
	size = int(scale) * realSize

	svg := svgo.New(&b)

	svg.Start(size, size)
	svg.Rect(0, 0, size, size, bgStyle)
	svg.Group(fgStyle)
	svg.Scale(scale)

	bitmap := q.bitmap()

	for y := 0; y < realSize; y++ {
		for x := 0; x < realSize; x++ {
			if bitmap[y][x] {
				svg.Rect(x, y, 1, 1)
			}
		}
	}

	svg.Gend()
	svg.Gend()
	svg.End()

	bts := b.Bytes()

	if q.Base64 {
		bts = []byte(fmt.Sprintf("data:image/svg+xml;base64,%s", base64.StdEncoding.EncodeToString(bts)))
	}

	return bts, nil
}
