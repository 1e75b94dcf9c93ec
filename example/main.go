package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	qrcode "github.com/qrforge/go-qrcode"
)

func main() {
	qr, err := qrcode.EncodeText("https://github.com/qrforge/go-qrcode", qrcode.High)
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Printf("version %d, level %s, mask %d\n", qr.Version(), qr.Level(), qr.Mask())

	opacity := 100
	a := (float64(opacity) / float64(100)) * float64(255)
	qr.ForegroundColor = color.RGBA{R: 255, G: 0, B: 0, A: uint8(a)}

	writeToFile("qr.png", qr.PNG)
	writeToFile("qr.jpeg", qr.JPEG)
	writeToFile("qr.svg", qr.SVG)
	writeToFile("qr.pdf", qr.PDF)

	qr.Base64 = true

	stdoutBase64(qr.PNG)
	fmt.Println("----------")
	stdoutBase64(qr.JPEG)
	fmt.Println("----------")
	stdoutBase64(qr.PDF)
	fmt.Println("----------")
	stdoutBase64(qr.SVG)
}

func writeToFile(fileName string, formatFunc func(_ int) ([]byte, error)) {
	size := 500
	fileMode := os.FileMode(0644)

	bytes, err := formatFunc(size)
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := os.WriteFile(fileName, bytes, fileMode); err != nil {
		log.Fatal(err.Error())
	}
}

func stdoutBase64(formatFunc func(_ int) ([]byte, error)) {
	bytes, err := formatFunc(500)
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Println(string(bytes))
}
