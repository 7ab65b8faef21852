package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/model"
)

// ErrUnsupportedImage is returned by ToPNG for colour spaces and encodings
// it cannot convert.
var ErrUnsupportedImage = errors.New("unsupported image")

// ImageRenderInfo describes an image painted by Do or an inline image.
type ImageRenderInfo struct {
	name      string
	ctm       model.Matrix
	stream    *core.Stream
	inline    bool
	resources core.Dict
	resolver  core.Resolver
	mcid      int

	img    *PDFImage
	imgErr error
	loaded bool
}

// CTM returns the transform that maps the unit square onto the page.
func (info *ImageRenderInfo) CTM() model.Matrix { return info.ctm }

// StartPoint returns the image origin in user space.
func (info *ImageRenderInfo) StartPoint() model.Vector {
	return model.Vector{}.Transform(info.ctm)
}

// Area returns the area of the image in user space.
func (info *ImageRenderInfo) Area() float64 {
	return math.Abs(info.ctm.Determinant())
}

// Name returns the XObject resource name, "" for inline images.
func (info *ImageRenderInfo) Name() string { return info.name }

// IsInline reports whether the image came from BI ... EI.
func (info *ImageRenderInfo) IsInline() bool { return info.inline }

// MCID returns the marked content ID the image belongs to, or -1.
func (info *ImageRenderInfo) MCID() int { return info.mcid }

// Stream returns the image stream, still encoded.
func (info *ImageRenderInfo) Stream() *core.Stream { return info.stream }

// Image decodes the image on first use.
func (info *ImageRenderInfo) Image() (*PDFImage, error) {
	if !info.loaded {
		info.img, info.imgErr = NewPDFImage(info.name, info.stream, info.resources, info.resolver)
		info.loaded = true
	}
	return info.img, info.imgErr
}

// PDFImage is a decoded image.
type PDFImage struct {
	Name             string
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK or Indexed
	Components       int
	BitsPerComponent int
	Data             []byte // decoded samples, or the encoded data for DCT and JPX
	Filter           string // last filter in the chain

	// Palette holds the lookup table of an Indexed image, with
	// PaletteComponents bytes per entry.
	Palette           []byte
	PaletteComponents int
}

// NewPDFImage decodes an image stream. Colour space names are looked up in
// resources when they are not device spaces.
func NewPDFImage(name string, stream *core.Stream, resources core.Dict, r core.Resolver) (*PDFImage, error) {
	if r == nil {
		r = core.NoResolver
	}
	dict := stream.Dict
	width, _ := core.ResolveNumber(r, dict.Get("Width"))
	height, _ := core.ResolveNumber(r, dict.Get("Height"))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %s: missing Width or Height", name)
	}

	img := &PDFImage{
		Name:             name,
		Width:            int(width),
		Height:           int(height),
		BitsPerComponent: 8,
	}
	if bpc, ok := core.ResolveNumber(r, dict.Get("BitsPerComponent")); ok {
		img.BitsPerComponent = int(bpc)
	}
	if mask, ok := dict.GetBool("ImageMask"); ok && bool(mask) {
		img.ColorSpace, img.Components, img.BitsPerComponent = "DeviceGray", 1, 1
	} else {
		img.setColorSpace(dict.Get("ColorSpace"), resources, r)
	}

	if filters := stream.Filters(); len(filters) > 0 {
		img.Filter = filters[len(filters)-1]
	}
	data, err := stream.DecodeWith(r)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", name, err)
	}
	img.Data = data
	return img, nil
}

func (img *PDFImage) setColorSpace(obj core.Object, resources core.Dict, r core.Resolver) {
	img.ColorSpace, img.Components = "DeviceGray", 1

	resolved, err := r.Resolve(obj)
	if err != nil || resolved == nil {
		return
	}
	if n, ok := resolved.(core.Name); ok {
		if cs, ok := deviceSpace(string(n)); ok {
			img.ColorSpace, img.Components = cs, components(cs)
			return
		}
		// a named colour space from /ColorSpace in the resources
		if csDict, ok := core.ResolveDict(r, resources.Get("ColorSpace")); ok {
			resolved, _ = r.Resolve(csDict.Get(string(n)))
		}
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) == 0 {
		return
	}
	family, _ := arr.GetName(0)
	switch family {
	case "ICCBased":
		n := 0
		if s, ok := resolveStream(r, arr.Get(1)); ok {
			if v, ok := core.ResolveNumber(r, s.Dict.Get("N")); ok {
				n = int(v)
			}
		}
		switch n {
		case 3:
			img.ColorSpace, img.Components = "DeviceRGB", 3
		case 4:
			img.ColorSpace, img.Components = "DeviceCMYK", 4
		}
	case "CalRGB", "Lab":
		img.ColorSpace, img.Components = "DeviceRGB", 3
	case "Indexed", "I":
		base := &PDFImage{}
		base.setColorSpace(arr.Get(1), resources, r)
		img.ColorSpace, img.Components = "Indexed", 1
		img.PaletteComponents = base.Components
		if lookup, err := r.Resolve(arr.Get(3)); err == nil {
			switch v := lookup.(type) {
			case core.String:
				img.Palette = v.Bytes()
			case *core.Stream:
				img.Palette, _ = v.DecodeWith(r)
			}
		}
	case "Separation", "DeviceN":
		img.ColorSpace, img.Components = "DeviceGray", 1
		if family == "DeviceN" {
			if names, ok := core.ResolveArray(r, arr.Get(1)); ok && len(names) > 0 {
				img.Components = len(names)
			}
		}
	}
}

func deviceSpace(name string) (string, bool) {
	switch name {
	case "DeviceGray", "G", "CalGray":
		return "DeviceGray", true
	case "DeviceRGB", "RGB", "CalRGB":
		return "DeviceRGB", true
	case "DeviceCMYK", "CMYK":
		return "DeviceCMYK", true
	}
	return "", false
}

func components(cs string) int {
	switch cs {
	case "DeviceRGB":
		return 3
	case "DeviceCMYK":
		return 4
	}
	return 1
}

func resolveStream(r core.Resolver, obj core.Object) (*core.Stream, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	s, ok := resolved.(*core.Stream)
	return s, ok
}

// ToPNG converts the image to PNG. DCT images are re-encoded from JPEG;
// sampled images in gray, RGB, CMYK or indexed colour at 1, 2, 4 or 8 bits
// per component are converted directly.
func (img *PDFImage) ToPNG() ([]byte, error) {
	var goImg image.Image
	switch img.Filter {
	case "DCTDecode", "DCT":
		decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("decode JPEG: %w", err)
		}
		goImg = decoded
	case "JPXDecode":
		return nil, fmt.Errorf("%w: JPEG 2000", ErrUnsupportedImage)
	default:
		var err error
		goImg, err = img.toImage()
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (img *PDFImage) toImage() (image.Image, error) {
	switch img.BitsPerComponent {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: %d bits per component", ErrUnsupportedImage, img.BitsPerComponent)
	}
	rowBytes := (img.Width*img.Components*img.BitsPerComponent + 7) / 8
	if need := rowBytes * img.Height; len(img.Data) < need {
		return nil, fmt.Errorf("insufficient image data: got %d, expected %d", len(img.Data), need)
	}

	bounds := image.Rect(0, 0, img.Width, img.Height)
	switch img.ColorSpace {
	case "DeviceGray":
		out := image.NewGray(bounds)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				out.Pix[y*out.Stride+x] = img.sample8(rowBytes, x, y, 0)
			}
		}
		return out, nil
	case "DeviceRGB", "DeviceCMYK", "Indexed":
		out := image.NewRGBA(bounds)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				c, err := img.pixel(rowBytes, x, y)
				if err != nil {
					return nil, err
				}
				i := y*out.Stride + x*4
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c.R, c.G, c.B, 255
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: colour space %s", ErrUnsupportedImage, img.ColorSpace)
}

func (img *PDFImage) pixel(rowBytes, x, y int) (color.RGBA, error) {
	switch img.ColorSpace {
	case "DeviceRGB":
		return color.RGBA{img.sample8(rowBytes, x, y, 0), img.sample8(rowBytes, x, y, 1), img.sample8(rowBytes, x, y, 2), 255}, nil
	case "DeviceCMYK":
		r, g, b := color.CMYKToRGB(img.sample8(rowBytes, x, y, 0), img.sample8(rowBytes, x, y, 1),
			img.sample8(rowBytes, x, y, 2), img.sample8(rowBytes, x, y, 3))
		return color.RGBA{r, g, b, 255}, nil
	}

	// Indexed
	idx := int(img.sample(rowBytes, x, y, 0))
	n := img.PaletteComponents
	if n == 0 || (idx+1)*n > len(img.Palette) {
		return color.RGBA{}, fmt.Errorf("palette index %d out of range", idx)
	}
	entry := img.Palette[idx*n : (idx+1)*n]
	switch n {
	case 1:
		return color.RGBA{entry[0], entry[0], entry[0], 255}, nil
	case 3:
		return color.RGBA{entry[0], entry[1], entry[2], 255}, nil
	case 4:
		r, g, b := color.CMYKToRGB(entry[0], entry[1], entry[2], entry[3])
		return color.RGBA{r, g, b, 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %d-component palette", ErrUnsupportedImage, n)
}

// sample returns component c of pixel (x, y) as stored, MSB first.
func (img *PDFImage) sample(rowBytes, x, y, c int) uint8 {
	bpc := img.BitsPerComponent
	bit := (x*img.Components + c) * bpc
	b := img.Data[y*rowBytes+bit/8]
	if bpc == 8 {
		return b
	}
	shift := 8 - bpc - bit%8
	return (b >> shift) & (1<<bpc - 1)
}

// sample8 scales a sample to 0-255.
func (img *PDFImage) sample8(rowBytes, x, y, c int) uint8 {
	v := img.sample(rowBytes, x, y, c)
	if img.BitsPerComponent == 8 {
		return v
	}
	return uint8(int(v) * 255 / (1<<img.BitsPerComponent - 1))
}
