package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// SampleSize is the edge length of a normalized face crop. Every training
// sample and every face handed to the recognizer is SampleSize×SampleSize
// grayscale.
const SampleSize = 200

// Grayscale converts a color frame to a single-channel image. The caller
// owns the returned Mat.
func Grayscale(frame gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	return gray
}

// CropFace extracts box from gray and resizes it to SampleSize×SampleSize.
// The caller owns the returned Mat.
func CropFace(gray gocv.Mat, box image.Rectangle) gocv.Mat {
	region := gray.Region(box)
	defer region.Close()

	face := gocv.NewMat()
	gocv.Resize(region, &face, image.Pt(SampleSize, SampleSize), 0, 0, gocv.InterpolationLinear)
	return face
}

// WriteSample persists a face crop as a lossless raster file.
func WriteSample(path string, face gocv.Mat) error {
	if ok := gocv.IMWrite(path, face); !ok {
		return fmt.Errorf("writing sample image %s", path)
	}
	return nil
}

// ReadSampleGray loads a sample image as grayscale. An unreadable file
// yields an empty Mat and an error; trainers skip those.
func ReadSampleGray(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return img, fmt.Errorf("reading sample image %s", path)
	}
	return img, nil
}
