package capture

import (
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
)

const (
	maxRegionDepth     = 4
	minRegionDimension = 100
)

// regionReader finds several symbols with a single-result reader by decoding
// again in the regions left of, above, right of and below every hit.
type regionReader struct {
	delegate gozxing.Reader
}

func newRegionReader(delegate gozxing.Reader) multi.MultipleBarcodeReader {
	return &regionReader{delegate: delegate}
}

func (r *regionReader) DecodeMultipleWithoutHint(img *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
	return r.DecodeMultiple(img, nil)
}

func (r *regionReader) DecodeMultiple(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error) {
	var results []*gozxing.Result
	r.decodeRegion(img, hints, &results, 0, 0, 0)
	if len(results) == 0 {
		return nil, gozxing.NewNotFoundException()
	}
	return results, nil
}

func (r *regionReader) decodeRegion(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}, results *[]*gozxing.Result, xOffset, yOffset, depth int) {
	if depth > maxRegionDepth {
		return
	}
	result, err := r.delegate.Decode(img, hints)
	r.delegate.Reset()
	if err != nil {
		return
	}

	known := false
	for _, existing := range *results {
		if existing.GetText() == result.GetText() {
			known = true
			break
		}
	}
	if !known {
		*results = append(*results, translateResult(result, xOffset, yOffset))
	}

	points := result.GetResultPoints()
	if len(points) == 0 {
		return
	}
	width, height := img.GetWidth(), img.GetHeight()
	minX, minY := float64(width), float64(height)
	maxX, maxY := 0.0, 0.0
	for _, p := range points {
		if p == nil {
			continue
		}
		minX = min(minX, p.GetX())
		minY = min(minY, p.GetY())
		maxX = max(maxX, p.GetX())
		maxY = max(maxY, p.GetY())
	}

	if minX > minRegionDimension {
		r.decodeCrop(img, hints, results, 0, 0, int(minX), height, xOffset, yOffset, depth)
	}
	if minY > minRegionDimension {
		r.decodeCrop(img, hints, results, 0, 0, width, int(minY), xOffset, yOffset, depth)
	}
	if maxX < float64(width-minRegionDimension) {
		r.decodeCrop(img, hints, results, int(maxX), 0, width-int(maxX), height, xOffset, yOffset, depth)
	}
	if maxY < float64(height-minRegionDimension) {
		r.decodeCrop(img, hints, results, 0, int(maxY), width, height-int(maxY), xOffset, yOffset, depth)
	}
}

func (r *regionReader) decodeCrop(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}, results *[]*gozxing.Result, left, top, width, height, xOffset, yOffset, depth int) {
	sub, err := img.Crop(left, top, width, height)
	if err != nil {
		return
	}
	r.decodeRegion(sub, hints, results, xOffset+left, yOffset+top, depth+1)
}

// translateResult moves result points from a cropped region back into frame
// coordinates.
func translateResult(result *gozxing.Result, xOffset, yOffset int) *gozxing.Result {
	if xOffset == 0 && yOffset == 0 {
		return result
	}
	points := make([]gozxing.ResultPoint, 0, len(result.GetResultPoints()))
	for _, p := range result.GetResultPoints() {
		if p == nil {
			continue
		}
		points = append(points, gozxing.NewResultPoint(p.GetX()+float64(xOffset), p.GetY()+float64(yOffset)))
	}
	return gozxing.NewResult(result.GetText(), result.GetRawBytes(), points, result.GetBarcodeFormat())
}
