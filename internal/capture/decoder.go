// Package capture turns camera frames into raw symbol detections. The frame
// source and the decoder are both replaceable behind small interfaces.
package capture

import (
	"image"
	"image/draw"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"

	"github.com/angelmondragon/scanpos/internal/scan"
)

// Decoder extracts every symbol visible in a frame. A frame without symbols
// yields an empty slice and a nil error.
type Decoder interface {
	Decode(img image.Image) ([]scan.Detection, error)
}

// ZXingDecoder runs a multi QR reader followed by the 1D readers on each
// frame. Every reader may return several symbols.
type ZXingDecoder struct {
	readers []multi.MultipleBarcodeReader
	hints   map[gozxing.DecodeHintType]interface{}
}

func NewZXingDecoder() *ZXingDecoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &ZXingDecoder{
		readers: []multi.MultipleBarcodeReader{
			multiqr.NewQRCodeMultiReader(),
			newRegionReader(oned.NewMultiFormatUPCEANReader(hints)),
			newRegionReader(oned.NewCode128Reader()),
			newRegionReader(oned.NewCode39Reader()),
		},
		hints: hints,
	}
}

func (d *ZXingDecoder) Decode(img image.Image) ([]scan.Detection, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(grayscale(img))
	if err != nil {
		return nil, err
	}

	var detections []scan.Detection
	seen := make(map[string]struct{})
	for _, reader := range d.readers {
		results, err := reader.DecodeMultiple(bmp, d.hints)
		if err != nil {
			// NotFound, checksum and format errors all mean "nothing here"
			continue
		}
		for _, result := range results {
			det := toDetection(result)
			key := det.Symbol + "\x00" + string(det.Payload)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			detections = append(detections, det)
		}
	}
	return detections, nil
}

// SymbolLabel maps a gozxing format to the label used throughout the
// pipeline, e.g. QR_CODE to QRCODE and EAN_13 to EAN13.
func SymbolLabel(format gozxing.BarcodeFormat) string {
	return strings.ReplaceAll(format.String(), "_", "")
}

func toDetection(result *gozxing.Result) scan.Detection {
	return scan.Detection{
		Payload: []byte(result.GetText()),
		Symbol:  SymbolLabel(result.GetBarcodeFormat()),
		Rect:    boundingRect(result.GetResultPoints()),
	}
}

func boundingRect(points []gozxing.ResultPoint) scan.Rect {
	if len(points) == 0 {
		return scan.Rect{}
	}
	minX, minY := points[0].GetX(), points[0].GetY()
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.GetX())
		minY = min(minY, p.GetY())
		maxX = max(maxX, p.GetX())
		maxY = max(maxY, p.GetY())
	}
	return scan.Rect{
		X:      int(minX),
		Y:      int(minY),
		Width:  int(maxX - minX),
		Height: int(maxY - minY),
	}
}

func grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
